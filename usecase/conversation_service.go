package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain/entities"
	"github.com/habla-ai/habla/domain/repositories"
	"github.com/habla-ai/habla/internal/audio"
	"github.com/habla-ai/habla/internal/observability"
)

// ConversationService orchestrates the tutoring flow: transcribing learner
// speech, generating tutor replies and synthesizing them to audio.
type ConversationService struct {
	llm          repositories.LargeLanguageModel
	speechToText repositories.SpeechToText
	textToSpeech repositories.TextToSpeech
	maxHistory   int
	logger       *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	llm repositories.LargeLanguageModel,
	stt repositories.SpeechToText,
	tts repositories.TextToSpeech,
	maxHistory int,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		llm:          llm,
		speechToText: stt,
		textToSpeech: tts,
		maxHistory:   maxHistory,
		logger:       logger,
	}
}

// StartChat opens a chat session seeded with the session's history, which
// always begins with the tutor system prompt.
func (s *ConversationService) StartChat(ctx context.Context, session *entities.ConversationSession) (repositories.ChatSession, error) {
	return s.llm.GenerateChat(ctx, session.Messages)
}

// RecordPrompt appends the learner message to the session and trims the
// history so long sessions keep the system prompt plus recent context only.
// Callers that share the session across goroutines must hold their own
// lock around this call.
func (s *ConversationService) RecordPrompt(session *entities.ConversationSession, userText string) {
	session.AddMessage(entities.MessageRoleUser, userText)
	session.Trim(s.maxHistory)
}

// Ask sends one learner message to the model. It does not touch the
// session, so it is safe to call without holding the caller's session lock.
func (s *ConversationService) Ask(
	ctx context.Context,
	chat repositories.ChatSession,
	userText string,
) (entities.Message, error) {
	reply, err := chat.SendMessage(ctx, entities.Message{
		Role:    entities.MessageRoleUser,
		Content: userText,
	})
	if err != nil {
		observability.RecordChatRequest("error")
		return entities.Message{}, fmt.Errorf("chat completion failed: %w", err)
	}
	observability.RecordChatRequest("ok")

	return reply, nil
}

// RecordReply appends the tutor reply to the session history. Same locking
// contract as RecordPrompt.
func (s *ConversationService) RecordReply(session *entities.ConversationSession, reply entities.Message) {
	session.AddMessage(entities.MessageRoleAssistant, reply.Content)

	s.logger.Info("Tutor reply generated",
		zap.String("sessionID", session.ID),
		zap.Int("historyLength", len(session.Messages)))
}

// Reply runs one full text turn: record the learner message, ask the model
// and record the tutor response.
func (s *ConversationService) Reply(
	ctx context.Context,
	session *entities.ConversationSession,
	chat repositories.ChatSession,
	userText string,
) (entities.Message, error) {
	s.RecordPrompt(session, userText)

	reply, err := s.Ask(ctx, chat, userText)
	if err != nil {
		return entities.Message{}, err
	}

	s.RecordReply(session, reply)
	return reply, nil
}

// Transcribe converts a buffered PCM recording to text, framing it as WAV
// and hinting the recognizer with the given target language.
func (s *ConversationService) Transcribe(
	ctx context.Context,
	target entities.LanguageConfig,
	pcm []byte,
	sampleRate int,
) (string, error) {
	if len(pcm) == 0 {
		return "", fmt.Errorf("no audio data received")
	}

	wav := audio.EncodeWAV(pcm, sampleRate, 1)
	config := repositories.AudioConfig{
		SampleRate: sampleRate,
		Encoding:   "WAV",
		Language:   target.WhisperCode,
	}

	transcription, err := s.speechToText.Transcribe(ctx, wav, config)
	if err != nil {
		observability.RecordSTTRequest("error")
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	observability.RecordSTTRequest("ok")

	s.logger.Info("Transcription completed",
		zap.String("language", config.Language))

	return transcription, nil
}

// Speak synthesizes tutor text with the voice of the given target
// language, streaming audio chunks as they arrive.
func (s *ConversationService) Speak(
	ctx context.Context,
	target entities.LanguageConfig,
	text string,
) (<-chan []byte, error) {
	voice := repositories.VoiceConfig{
		VoiceID:  target.VoiceID,
		Language: target.Code,
	}

	audioChan, err := s.textToSpeech.Synthesize(ctx, text, voice)
	if err != nil {
		observability.RecordTTSRequest("error")
		return nil, fmt.Errorf("text-to-speech failed: %w", err)
	}
	observability.RecordTTSRequest("ok")

	return audioChan, nil
}
