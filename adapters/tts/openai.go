package tts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain/repositories"
)

const (
	defaultOpenAITTSModel = "tts-1"
	defaultOpenAIVoice    = "alloy"
	defaultOpenAISpeed    = 1.0
)

// OpenAIConfig holds configuration for the OpenAI TTS adapter
type OpenAIConfig struct {
	APIKey string  // Required: OpenAI API key
	Model  string  // Optional: speech model (default: "tts-1")
	Voice  string  // Optional: voice name (default: "alloy")
	Speed  float64 // Optional: speaking speed, 0.25 to 4.0 (default: 1.0)
}

// OpenAITTS implements TextToSpeech using the OpenAI speech API. Unlike
// ElevenLabs there is no per-language voice catalog; one configured voice
// speaks every language.
type OpenAITTS struct {
	client *openai.Client
	model  string
	voice  string
	speed  float64
	logger *zap.Logger
}

// Ensure OpenAITTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*OpenAITTS)(nil)

// NewOpenAITTS creates a new OpenAI TTS adapter
func NewOpenAITTS(config OpenAIConfig, logger *zap.Logger) (*OpenAITTS, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Speed != 0 && (config.Speed < 0.25 || config.Speed > 4.0) {
		return nil, fmt.Errorf("speed must be between 0.25 and 4.0, got %f", config.Speed)
	}

	model := config.Model
	if model == "" {
		model = defaultOpenAITTSModel
	}
	voice := config.Voice
	if voice == "" {
		voice = defaultOpenAIVoice
	}
	speed := config.Speed
	if speed == 0 {
		speed = defaultOpenAISpeed
	}

	return &OpenAITTS{
		client: openai.NewClient(config.APIKey),
		model:  model,
		voice:  voice,
		speed:  speed,
		logger: logger,
	}, nil
}

// Synthesize converts text to speech, streaming the MP3 response in chunks
func (o *OpenAITTS) Synthesize(ctx context.Context, text string, voice repositories.VoiceConfig) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(o.model),
		Input: text,
		Voice: openai.SpeechVoice(o.voice),
		Speed: o.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI speech API call failed: %w", err)
	}

	audioChan := make(chan []byte, 10)

	go func() {
		defer close(audioChan)
		defer resp.Close()

		buffer := make([]byte, defaultChunkSize)
		for {
			n, err := resp.Read(buffer)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buffer[:n])

				select {
				case audioChan <- chunk:
				case <-ctx.Done():
					return
				}
			}

			if err == io.EOF {
				return
			}
			if err != nil {
				o.logger.Error("Error reading speech response", zap.Error(err))
				return
			}
		}
	}()

	return audioChan, nil
}
