package repositories

import "context"

// TextToSpeech abstracts speech synthesis services. Audio is delivered as
// a stream of chunks so the websocket layer can forward them as they
// arrive.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, voice VoiceConfig) (<-chan []byte, error)
}

// VoiceConfig selects the voice for synthesis
type VoiceConfig struct {
	VoiceID  string `json:"voice_id"`
	Language string `json:"language"`
}
