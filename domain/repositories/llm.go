package repositories

import (
	"context"

	"github.com/habla-ai/habla/domain/entities"
)

// LargeLanguageModel abstracts any chat/LLM provider
type LargeLanguageModel interface {
	// GenerateChat creates a chat session seeded with history. The first
	// history entry with a system role is used as the tutor instruction.
	GenerateChat(ctx context.Context, history []entities.Message) (ChatSession, error)
}

// ChatSession represents an ongoing conversation with the model
type ChatSession interface {
	SendMessage(ctx context.Context, message entities.Message) (entities.Message, error)
	History() ([]entities.Message, error)
}
