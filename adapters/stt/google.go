package stt

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain/repositories"
)

// GoogleSpeechToText implements SpeechToText for Google Cloud Speech.
// Credentials come from the ambient GOOGLE_APPLICATION_CREDENTIALS setup.
type GoogleSpeechToText struct {
	logger *zap.Logger
}

// Ensure GoogleSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a new Google Cloud Speech adapter
func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// Transcribe converts audio data to text using Google Cloud Speech-to-Text
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", fmt.Errorf("audio data cannot be empty")
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	encoding, err := getAudioEncoding(config.Encoding)
	if err != nil {
		return "", err
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(config.SampleRate),
			LanguageCode:    bcp47LanguageCode(config.Language),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to recognize speech: %w", err)
	}

	var transcription string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcription += result.Alternatives[0].Transcript
		}
	}
	if transcription == "" {
		return "", fmt.Errorf("no speech detected in audio")
	}

	g.logger.Debug("Google transcription received",
		zap.String("language", config.Language),
		zap.Int("results", len(resp.Results)))

	return transcription, nil
}

// bcp47LanguageCode expands an ISO 639-1 hint into the BCP-47 code the
// Google API requires.
func bcp47LanguageCode(code string) string {
	regions := map[string]string{
		"en": "en-US",
		"es": "es-ES",
		"fr": "fr-FR",
		"de": "de-DE",
		"it": "it-IT",
		"pt": "pt-PT",
		"pl": "pl-PL",
	}
	if full, ok := regions[code]; ok {
		return full
	}
	return code
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
