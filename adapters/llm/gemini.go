package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/habla-ai/habla/domain/entities"
	"github.com/habla-ai/habla/domain/repositories"
)

const (
	defaultGeminiModel     = "gemini-2.0-flash"
	defaultGeminiMaxTokens = 1024
)

// GeminiConfig holds configuration for the Gemini chat adapter
type GeminiConfig struct {
	APIKey          string  // Required: Google AI API key
	Model           string  // Optional: model name (default: "gemini-2.0-flash")
	Temperature     float32 // Optional: sampling temperature, 0..1
	MaxOutputTokens int     // Optional: response token cap
}

// GeminiLLM implements the LargeLanguageModel interface using Google's
// Gemini API
type GeminiLLM struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
}

// Ensure GeminiLLM implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*GeminiLLM)(nil)

// NewGeminiLLM creates a new Gemini LLM instance
func NewGeminiLLM(config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google AI API key is required")
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
		logger.Info("Using default model", zap.String("model", model))
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultGeminiMaxTokens
	}

	return &GeminiLLM{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     config.Temperature,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// GenerateChat creates a chat session with history
func (g *GeminiLLM) GenerateChat(ctx context.Context, history []entities.Message) (repositories.ChatSession, error) {
	return newGeminiChatSession(g, history), nil
}
