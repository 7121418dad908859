package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain/entities"
	"github.com/habla-ai/habla/domain/repositories"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the OpenAI chat adapter
type OpenAIConfig struct {
	APIKey      string  // Required: OpenAI API key
	Model       string  // Optional: chat model (default: "gpt-4o-mini")
	Temperature float32 // Optional: sampling temperature
}

// OpenAILLM implements the LargeLanguageModel interface using the OpenAI
// chat completions API
type OpenAILLM struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// Ensure OpenAILLM implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*OpenAILLM)(nil)

// NewOpenAILLM creates a new OpenAI chat adapter
func NewOpenAILLM(config OpenAIConfig, logger *zap.Logger) (*OpenAILLM, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
		logger.Info("Using default chat model", zap.String("model", model))
	}

	return &OpenAILLM{
		client:      openai.NewClient(config.APIKey),
		model:       model,
		temperature: config.Temperature,
		logger:      logger,
	}, nil
}

// GenerateChat creates a chat session seeded with history
func (o *OpenAILLM) GenerateChat(ctx context.Context, history []entities.Message) (repositories.ChatSession, error) {
	return &openAIChatSession{
		client:      o.client,
		model:       o.model,
		temperature: o.temperature,
		logger:      o.logger,
		history:     toOpenAIMessages(history),
	}, nil
}

type openAIChatSession struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
	history     []openai.ChatCompletionMessage
}

// SendMessage sends a message and returns the assistant reply, updating
// the session history
func (s *openAIChatSession) SendMessage(ctx context.Context, message entities.Message) (entities.Message, error) {
	userMessage := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message.Content,
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    append(s.history, userMessage),
		Temperature: s.temperature,
	})
	if err != nil {
		return entities.Message{}, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return entities.Message{}, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	s.history = append(s.history, userMessage, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	})

	s.logger.Debug("Chat completion received",
		zap.String("model", s.model),
		zap.Int("historyLength", len(s.history)))

	return entities.Message{
		Role:    entities.MessageRoleAssistant,
		Content: content,
	}, nil
}

// History returns the current conversation history
func (s *openAIChatSession) History() ([]entities.Message, error) {
	return fromOpenAIMessages(s.history), nil
}

func toOpenAIMessages(messages []entities.Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case entities.MessageRoleSystem:
			role = openai.ChatMessageRoleSystem
		case entities.MessageRoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	return converted
}

func fromOpenAIMessages(messages []openai.ChatCompletionMessage) []entities.Message {
	converted := make([]entities.Message, 0, len(messages))
	for _, msg := range messages {
		var role entities.MessageRole
		switch msg.Role {
		case openai.ChatMessageRoleSystem:
			role = entities.MessageRoleSystem
		case openai.ChatMessageRoleAssistant:
			role = entities.MessageRoleAssistant
		default:
			role = entities.MessageRoleUser
		}
		converted = append(converted, entities.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	return converted
}
