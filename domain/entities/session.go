package entities

import (
	"errors"
	"fmt"
	"time"
)

// MessageRole represents the role of a message sender
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ErrSameLanguagePair is returned when a learner selects the same language
// as both target and mother tongue.
var ErrSameLanguagePair = errors.New("target language cannot be the same as mother tongue")

// Message represents a single message in a tutoring conversation
type Message struct {
	Timestamp time.Time   `json:"timestamp"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
}

// ConversationSession holds the state of one learner's tutoring session:
// the selected language pair and the running message history. Messages[0]
// is always the tutor system prompt.
type ConversationSession struct {
	ID             string    `json:"id"`
	TargetLanguage string    `json:"target_language"`
	MotherTongue   string    `json:"mother_tongue"`
	CreatedAt      time.Time `json:"created_at"`
	LastMessageAt  time.Time `json:"last_message_at"`
	Messages       []Message `json:"messages"`
}

// NewConversationSession creates a session with the default language pair
// and its system prompt in place.
func NewConversationSession(id string) *ConversationSession {
	now := time.Now()
	s := &ConversationSession{
		ID:             id,
		TargetLanguage: DefaultTargetLanguage,
		MotherTongue:   DefaultMotherTongue,
		CreatedAt:      now,
		LastMessageAt:  now,
	}
	s.Messages = []Message{{
		Timestamp: now,
		Role:      MessageRoleSystem,
		Content:   SystemPrompt(s.TargetLanguage, s.MotherTongue),
	}}
	return s
}

// SetLanguages updates the language pair and rewrites the system prompt
// in place, preserving the rest of the history.
func (s *ConversationSession) SetLanguages(targetKey, motherKey string) error {
	if targetKey == motherKey {
		return ErrSameLanguagePair
	}
	if _, ok := SupportedLanguages[targetKey]; !ok {
		return fmt.Errorf("unsupported target language: %s", targetKey)
	}
	if _, ok := MotherTongues[motherKey]; !ok {
		return fmt.Errorf("unsupported mother tongue: %s", motherKey)
	}

	s.TargetLanguage = targetKey
	s.MotherTongue = motherKey

	prompt := Message{
		Timestamp: time.Now(),
		Role:      MessageRoleSystem,
		Content:   SystemPrompt(targetKey, motherKey),
	}
	if len(s.Messages) > 0 && s.Messages[0].Role == MessageRoleSystem {
		s.Messages[0] = prompt
	} else {
		s.Messages = append([]Message{prompt}, s.Messages...)
	}
	return nil
}

// Target returns the configuration of the current target language.
func (s *ConversationSession) Target() LanguageConfig {
	return TargetLanguage(s.TargetLanguage)
}

// Mother returns the configuration of the current mother tongue.
func (s *ConversationSession) Mother() MotherTongueConfig {
	return MotherTongue(s.MotherTongue)
}

// AddMessage appends a message to the history.
func (s *ConversationSession) AddMessage(role MessageRole, content string) {
	now := time.Now()
	s.Messages = append(s.Messages, Message{
		Timestamp: now,
		Role:      role,
		Content:   content,
	})
	s.LastMessageAt = now
}

// Trim drops the oldest messages so at most max remain after the system
// prompt. The system prompt is never dropped.
func (s *ConversationSession) Trim(max int) {
	if max <= 0 || len(s.Messages) <= max+1 {
		return
	}
	trimmed := make([]Message, 0, max+1)
	trimmed = append(trimmed, s.Messages[0])
	trimmed = append(trimmed, s.Messages[len(s.Messages)-max:]...)
	s.Messages = trimmed
}
