package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/habla-ai/habla/domain/entities"
)

// geminiChatSession implements the ChatSession interface. The tutor system
// prompt travels separately from the turn history, as Gemini expects.
type geminiChatSession struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
	systemPrompt    string
	history         []*genai.Content
}

func newGeminiChatSession(llm *GeminiLLM, history []entities.Message) *geminiChatSession {
	systemPrompt := ""
	turns := history
	if len(history) > 0 && history[0].Role == entities.MessageRoleSystem {
		systemPrompt = history[0].Content
		turns = history[1:]
	}

	return &geminiChatSession{
		client:          llm.client,
		logger:          llm.logger,
		model:           llm.model,
		temperature:     llm.temperature,
		maxOutputTokens: llm.maxOutputTokens,
		systemPrompt:    systemPrompt,
		history:         toGeminiContents(turns),
	}
}

// SendMessage sends a message and gets a response, updating the history
func (s *geminiChatSession) SendMessage(ctx context.Context, message entities.Message) (entities.Message, error) {
	userContent := genai.NewContentFromText(message.Content, genai.RoleUser)

	contents := make([]*genai.Content, 0, len(s.history)+1)
	contents = append(contents, s.history...)
	contents = append(contents, userContent)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.temperature),
		MaxOutputTokens: int32(s.maxOutputTokens),
	}
	if s.systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(s.systemPrompt, genai.RoleUser)
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = s.client.Models.GenerateContent(ctx, s.model, contents, config)
		if err == nil {
			break
		}

		s.logger.Warn("Failed to generate content, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return entities.Message{}, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return entities.Message{}, fmt.Errorf("no content generated")
	}

	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText += part.Text
		}
	}
	if responseText == "" {
		return entities.Message{}, fmt.Errorf("empty response from Gemini")
	}

	responseContent := genai.NewContentFromText(responseText, genai.RoleModel)
	s.history = append(s.history, userContent, responseContent)

	return entities.Message{
		Role:    entities.MessageRoleAssistant,
		Content: responseText,
	}, nil
}

// History returns the current conversation history
func (s *geminiChatSession) History() ([]entities.Message, error) {
	return fromGeminiContents(s.history), nil
}

func toGeminiContents(messages []entities.Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		var role genai.Role = genai.RoleUser
		if msg.Role == entities.MessageRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

func fromGeminiContents(contents []*genai.Content) []entities.Message {
	var messages []entities.Message
	for _, content := range contents {
		role := entities.MessageRoleUser
		if content.Role == genai.RoleModel {
			role = entities.MessageRoleAssistant
		}

		var text string
		for _, part := range content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		if text != "" {
			messages = append(messages, entities.Message{
				Role:    role,
				Content: text,
			})
		}
	}
	return messages
}
