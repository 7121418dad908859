package stt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain/repositories"
)

const defaultWhisperModel = "whisper-1"

// WhisperConfig holds configuration for the Whisper adapter
type WhisperConfig struct {
	APIKey string // Required: OpenAI API key
	Model  string // Optional: transcription model (default: "whisper-1")
}

// WhisperSpeechToText implements SpeechToText using the OpenAI Whisper API
type WhisperSpeechToText struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Ensure WhisperSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*WhisperSpeechToText)(nil)

// NewWhisperSpeechToText creates a new Whisper transcription adapter
func NewWhisperSpeechToText(config WhisperConfig, logger *zap.Logger) (*WhisperSpeechToText, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultWhisperModel
	}

	return &WhisperSpeechToText{
		client: openai.NewClient(config.APIKey),
		model:  model,
		logger: logger,
	}, nil
}

// Transcribe converts a complete audio clip to text. The clip must carry
// a container the API understands; callers frame raw PCM as WAV first.
func (w *WhisperSpeechToText) Transcribe(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("audio data cannot be empty")
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audioData),
		Language: config.Language,
	})
	if err != nil {
		return "", fmt.Errorf("Whisper API call failed: %w", err)
	}

	w.logger.Debug("Transcription received",
		zap.String("language", config.Language),
		zap.Int("audioBytes", len(audioData)))

	return resp.Text, nil
}
