package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/habla-ai/habla/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Incoming message types
const (
	MessageTypeSessionStart   MessageType = "session_start"
	MessageTypeChatMessage    MessageType = "chat_message"
	MessageTypeSettingsUpdate MessageType = "settings_update"
	MessageTypeListeningStart MessageType = "listening_start"
	MessageTypeListeningEnd   MessageType = "listening_end"
)

// Outgoing message types
const (
	MessageTypeWelcome         MessageType = "welcome"
	MessageTypeSettingsSync    MessageType = "settings_sync"
	MessageTypeSettingsUpdated MessageType = "settings_updated"
	MessageTypeTranscription   MessageType = "transcription"
	MessageTypeSpeakingStart   MessageType = "speaking_start"
	MessageTypeSpeakingEnd     MessageType = "speaking_end"
	MessageTypeError           MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// ChatMessage carries a learner text message
type ChatMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// SettingsUpdateMessage changes the session's language pair
type SettingsUpdateMessage struct {
	BaseMessage
	TargetLanguage string `json:"target_language"`
	MotherTongue   string `json:"mother_tongue"`
}

// ListeningStartMessage opens a voice recording; binary frames that follow
// are raw PCM chunks until listening_end.
type ListeningStartMessage struct {
	BaseMessage
	SampleRate int    `json:"sample_rate,omitempty"`
	Encoding   string `json:"encoding,omitempty"`
}

// WelcomeMessage greets the learner in the target language
type WelcomeMessage struct {
	BaseMessage
	Content string `json:"content"`
	Author  string `json:"author"`
}

// SettingsSyncMessage tells the UI which DeepL codes to use for the
// inline translation feature
type SettingsSyncMessage struct {
	BaseMessage
	TargetLanguage  string `json:"target_language"`
	MotherTongue    string `json:"mother_tongue"`
	TargetDeepLCode string `json:"target_deepl_code"`
	MotherDeepLCode string `json:"mother_deepl_code"`
}

// TranscriptionMessage echoes what the recognizer heard
type TranscriptionMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// SpeakingStartMessage precedes streamed tutor audio; the text reply
// rides along so the UI can render it immediately
type SpeakingStartMessage struct {
	BaseMessage
	Content string `json:"content"`
	Author  string `json:"author"`
}

// SpeakingEndMessage closes a streamed tutor audio response
type SpeakingEndMessage struct {
	BaseMessage
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// ParseMessage parses and validates an incoming text frame
func ParseMessage(raw []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeSessionStart, MessageTypeListeningEnd:
		return &base, nil

	case MessageTypeChatMessage:
		var msg ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("invalid chat message: %w", err)
		}
		if msg.Content == "" {
			return nil, fmt.Errorf("content is required")
		}
		return &msg, nil

	case MessageTypeSettingsUpdate:
		var msg SettingsUpdateMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("invalid settings update message: %w", err)
		}
		if msg.TargetLanguage == "" || msg.MotherTongue == "" {
			return nil, fmt.Errorf("target_language and mother_tongue are required")
		}
		return &msg, nil

	case MessageTypeListeningStart:
		var msg ListeningStartMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening start message: %w", err)
		}
		if msg.SampleRate != 0 && (msg.SampleRate < 8000 || msg.SampleRate > 48000) {
			return nil, fmt.Errorf("sample_rate must be between 8000 and 48000")
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// NewWelcomeMessage creates the greeting for a session's target language
func NewWelcomeMessage(session *entities.ConversationSession) *WelcomeMessage {
	target := session.Target()
	return &WelcomeMessage{
		BaseMessage: BaseMessage{Type: MessageTypeWelcome, Timestamp: now()},
		Content:     target.WelcomeMessage,
		Author:      target.TutorName,
	}
}

// NewSettingsSyncMessage creates a settings sync for a session's language pair
func NewSettingsSyncMessage(session *entities.ConversationSession) *SettingsSyncMessage {
	return &SettingsSyncMessage{
		BaseMessage:     BaseMessage{Type: MessageTypeSettingsSync, Timestamp: now()},
		TargetLanguage:  session.TargetLanguage,
		MotherTongue:    session.MotherTongue,
		TargetDeepLCode: session.Target().DeepLCode,
		MotherDeepLCode: session.Mother().DeepLCode,
	}
}

// NewTranscriptionMessage echoes a recognized learner utterance
func NewTranscriptionMessage(content string) *TranscriptionMessage {
	return &TranscriptionMessage{
		BaseMessage: BaseMessage{Type: MessageTypeTranscription, Timestamp: now()},
		Content:     content,
	}
}

// NewSpeakingStartMessage announces a tutor reply about to be streamed
func NewSpeakingStartMessage(content, author string) *SpeakingStartMessage {
	return &SpeakingStartMessage{
		BaseMessage: BaseMessage{Type: MessageTypeSpeakingStart, Timestamp: now()},
		Content:     content,
		Author:      author,
	}
}

// NewSpeakingEndMessage closes a streamed tutor reply
func NewSpeakingEndMessage() *SpeakingEndMessage {
	return &SpeakingEndMessage{
		BaseMessage: BaseMessage{Type: MessageTypeSpeakingEnd, Timestamp: now()},
	}
}

// NewErrorMessage creates a standardized error message
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeError, Timestamp: now()},
		Code:        code,
		Message:     message,
	}
}
