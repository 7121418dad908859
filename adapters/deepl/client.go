package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/habla-ai/habla/domain"
	"github.com/habla-ai/habla/domain/repositories"
)

const (
	proAPIBaseURL  = "https://api.deepl.com/v2"
	freeAPIBaseURL = "https://api-free.deepl.com/v2"

	defaultRequestsPerSecond = 5
	defaultBurst             = 5
)

// Config holds configuration for the DeepL client
// Required fields:
// - APIKey: Your DeepL API key. Keys ending in ":fx" select the free
//   API endpoint automatically.
// Optional fields with defaults:
// - APIBaseURL: Override the API base URL (default chosen from the key)
// - RequestsPerSecond: Client-side request budget for the paid API
// - Burst: Maximum burst above the steady rate
type Config struct {
	APIKey            string
	APIBaseURL        string
	RequestsPerSecond float64
	Burst             int
}

// Client implements the Translator interface using the DeepL API
type Client struct {
	apiKey     string
	apiBaseURL string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Ensure Client implements the Translator interface
var _ repositories.Translator = (*Client)(nil)

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// NewClient creates a new DeepL client. Fails when no API key is
// configured; this is checked once at construction, not per call.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, domain.ErrTranslatorNotConfigured
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		// Free-tier keys carry the ":fx" suffix and use a separate host.
		if strings.HasSuffix(config.APIKey, ":fx") {
			apiBaseURL = freeAPIBaseURL
		} else {
			apiBaseURL = proAPIBaseURL
		}
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	rps := config.RequestsPerSecond
	if rps == 0 {
		rps = defaultRequestsPerSecond
	}
	burst := config.Burst
	if burst == 0 {
		burst = defaultBurst
	}

	return &Client{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}, nil
}

// Translate translates text into the target language using the DeepL API.
// Calls are not retried; failures are returned to the caller as-is.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", targetLang)

	endpoint := c.apiBaseURL + "/translate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("DeepL API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return "", fmt.Errorf("deepl: unexpected status %d: %s", resp.StatusCode, string(errorBody))
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return "", fmt.Errorf("deepl: empty translations in response")
	}

	return parsed.Translations[0].Text, nil
}
