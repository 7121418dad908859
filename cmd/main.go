package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/adapters/deepl"
	"github.com/habla-ai/habla/adapters/llm"
	"github.com/habla-ai/habla/adapters/mongo"
	"github.com/habla-ai/habla/adapters/stt"
	"github.com/habla-ai/habla/adapters/tts"
	"github.com/habla-ai/habla/domain/repositories"
	"github.com/habla-ai/habla/internal/api"
	"github.com/habla-ai/habla/internal/auth"
	"github.com/habla-ai/habla/internal/config"
	"github.com/habla-ai/habla/internal/websocket"
	"github.com/habla-ai/habla/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Translation cache. The server refuses to start without its
	// backing store; everything else degrades gracefully.
	cache := mongo.NewTranslationCache(cfg.MongoDBURL, cfg.MongoDatabase, logger)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := cache.Connect(connectCtx); err != nil {
		connectCancel()
		logger.Fatal("Failed to connect translation cache", zap.Error(err))
	}
	connectCancel()

	// DeepL translator. Optional: without a credential the translate
	// endpoint reports a configuration error instead.
	var translator repositories.Translator
	deeplClient, err := deepl.NewClient(deepl.Config{
		APIKey:            cfg.DeepLAPIKey,
		RequestsPerSecond: cfg.DeepLRequestsPerSecond,
	}, logger)
	if err != nil {
		logger.Warn("Translation provider not configured", zap.Error(err))
	} else {
		translator = deeplClient
	}

	chatModel := buildChatModel(cfg, logger)
	speechToText := buildSpeechToText(cfg, logger)
	textToSpeech := buildTextToSpeech(cfg, logger)

	// Usecase services
	translationService := usecase.NewTranslationService(cache, translator, logger)
	conversationService := usecase.NewConversationService(
		chatModel, speechToText, textToSpeech, cfg.MaxHistoryMessages, logger)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.SessionTokenTTLHours)*time.Hour)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// WebSocket hub
	hub := websocket.NewHub(conversationService, logger)
	go hub.Run()

	api.InitRoutes(e, hub, translationService, issuer, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("chat_provider", cfg.ChatProvider),
		zap.String("stt_provider", cfg.STTProvider),
		zap.String("tts_provider", cfg.TTSProvider),
		zap.Bool("translator_configured", translator != nil))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := cache.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect translation cache", zap.Error(err))
	}

	logger.Info("Server exited")
}

func buildChatModel(cfg *config.Config, logger *zap.Logger) repositories.LargeLanguageModel {
	switch cfg.ChatProvider {
	case "gemini":
		model, err := llm.NewGeminiLLM(llm.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.ChatTemperature,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create Gemini chat adapter", zap.Error(err))
		}
		return model
	default:
		model, err := llm.NewOpenAILLM(llm.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.ChatModel,
			Temperature: cfg.ChatTemperature,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create OpenAI chat adapter", zap.Error(err))
		}
		return model
	}
}

func buildSpeechToText(cfg *config.Config, logger *zap.Logger) repositories.SpeechToText {
	switch cfg.STTProvider {
	case "google":
		return stt.NewGoogleSpeechToText(logger)
	default:
		adapter, err := stt.NewWhisperSpeechToText(stt.WhisperConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.STTModel,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create Whisper adapter", zap.Error(err))
		}
		return adapter
	}
}

func buildTextToSpeech(cfg *config.Config, logger *zap.Logger) repositories.TextToSpeech {
	switch cfg.TTSProvider {
	case "openai":
		adapter, err := tts.NewOpenAITTS(tts.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.TTSModel,
			Voice:  cfg.TTSVoice,
			Speed:  cfg.TTSSpeed,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create OpenAI TTS adapter", zap.Error(err))
		}
		return adapter
	default:
		adapter, err := tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey: cfg.ElevenLabsAPIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create ElevenLabs TTS adapter", zap.Error(err))
		}
		return adapter
	}
}
