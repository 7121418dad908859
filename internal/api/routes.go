package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain"
	"github.com/habla-ai/habla/domain/entities"
	"github.com/habla-ai/habla/internal/auth"
	"github.com/habla-ai/habla/internal/websocket"
	"github.com/habla-ai/habla/usecase"
)

// Default target for inline translations when the request omits one.
const defaultTranslateTarget = "ES"

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	hub *websocket.Hub,
	translation *usecase.TranslationService,
	issuer *auth.TokenIssuer,
	logger *zap.Logger,
) {
	// Health check, also mirrored under /api for clients behind the
	// same prefix as the rest of the surface.
	e.GET("/health", func(c echo.Context) error {
		return healthCheck(c, translation)
	})

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return healthCheck(c, translation)
	})

	api.GET("/translate", func(c echo.Context) error {
		return translate(c, translation, logger)
	})

	api.POST("/session", func(c echo.Context) error {
		return createSession(c, issuer, logger)
	})

	api.GET("/languages", listLanguages)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, issuer, logger)
	})
}

func healthCheck(c echo.Context, translation *usecase.TranslationService) error {
	resp := HealthResponse{
		Status:     "ok",
		Service:    "habla-server",
		Database:   "connected",
		Translator: "configured",
	}
	if !translation.CacheReady(c.Request().Context()) {
		resp.Database = "disconnected"
	}
	if !translation.Configured() {
		resp.Translator = "not_configured"
	}
	return c.JSON(http.StatusOK, resp)
}

// translate serves the inline-translation feature: cached lookups answer
// immediately, misses go to the provider and are stored for next time.
func translate(c echo.Context, translation *usecase.TranslationService, logger *zap.Logger) error {
	text := c.QueryParam("text")
	if text == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "text query parameter is required",
		})
	}

	targetLang := c.QueryParam("target_lang")
	if targetLang == "" {
		targetLang = defaultTranslateTarget
	}

	translated, cached, err := translation.Translate(c.Request().Context(), text, targetLang)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTranslatorNotConfigured):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "configuration_missing",
				Message: "Translation provider is not configured",
			})
		case errors.Is(err, domain.ErrCacheNotConnected):
			logger.Error("Translation cache unavailable", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "cache_unavailable",
				Message: "Translation cache is not connected",
			})
		default:
			logger.Error("Translation failed",
				zap.String("target_lang", targetLang),
				zap.Error(err))
			return c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "translation_failed",
				Message: err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, TranslateResponse{
		Original:    text,
		Translation: translated,
		TargetLang:  strings.ToUpper(targetLang),
		Cached:      cached,
	})
}

// createSession issues a fresh session ID and a signed token for the
// websocket endpoint.
func createSession(c echo.Context, issuer *auth.TokenIssuer, logger *zap.Logger) error {
	sessionID := uuid.New().String()

	token, err := issuer.GenerateSessionToken(sessionID)
	if err != nil {
		logger.Error("Failed to generate session token",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate session token",
		})
	}

	logger.Info("Session created", zap.String("session_id", sessionID))

	return c.JSON(http.StatusOK, SessionResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(issuer.TTL()),
		SessionID: sessionID,
	})
}

func listLanguages(c echo.Context) error {
	resp := LanguagesResponse{
		DefaultTarget:       entities.DefaultTargetLanguage,
		DefaultMotherTongue: entities.DefaultMotherTongue,
	}

	for key, lang := range entities.SupportedLanguages {
		resp.TargetLanguages = append(resp.TargetLanguages, LanguageInfo{
			Key:       key,
			Name:      lang.Name,
			TutorName: lang.TutorName,
			Code:      lang.Code,
			DeepLCode: lang.DeepLCode,
		})
	}
	sort.Slice(resp.TargetLanguages, func(i, j int) bool {
		return resp.TargetLanguages[i].Key < resp.TargetLanguages[j].Key
	})

	for key, tongue := range entities.MotherTongues {
		resp.MotherTongues = append(resp.MotherTongues, MotherTongueInfo{
			Key:       key,
			Name:      tongue.Name,
			DeepLCode: tongue.DeepLCode,
		})
	}
	sort.Slice(resp.MotherTongues, func(i, j int) bool {
		return resp.MotherTongues[i].Key < resp.MotherTongues[j].Key
	})

	return c.JSON(http.StatusOK, resp)
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(hub *websocket.Hub, c echo.Context, issuer *auth.TokenIssuer, logger *zap.Logger) error {
	// Browsers cannot set headers on websocket upgrades, so accept the
	// token from either the Authorization header or a query parameter.
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "Session token is required",
		})
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired session token",
		})
	}

	if claims.Role != "learner" {
		logger.Warn("WebSocket connection rejected: invalid role",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only learner tokens may open a tutoring session",
		})
	}

	if claims.SessionID == "" {
		logger.Warn("WebSocket connection rejected: missing session ID")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Token does not carry a session ID",
		})
	}

	return websocket.HandleChat(hub, c, claims.SessionID, logger)
}
