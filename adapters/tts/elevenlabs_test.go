package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/habla-ai/habla/domain/repositories"
)

func TestNewElevenLabsTTS_RequiresAPIKey(t *testing.T) {
	if _, err := NewElevenLabsTTS(ElevenLabsConfig{}, zaptest.NewLogger(t)); err == nil {
		t.Error("missing API key was accepted")
	}
}

func TestNewElevenLabsTTS_Defaults(t *testing.T) {
	adapter, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewElevenLabsTTS failed: %v", err)
	}

	if adapter.modelID != defaultModelID {
		t.Errorf("model = %q, want %q", adapter.modelID, defaultModelID)
	}
	if adapter.outputFormat != defaultOutputFormat {
		t.Errorf("output format = %q, want %q", adapter.outputFormat, defaultOutputFormat)
	}
	if adapter.stability != defaultStability || adapter.clarity != defaultClarity {
		t.Errorf("voice settings = (%f, %f), want defaults", adapter.stability, adapter.clarity)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	cases := []struct {
		name    string
		config  ElevenLabsConfig
		wantErr bool
	}{
		{"valid", ElevenLabsConfig{APIKey: "key"}, false},
		{"missing key", ElevenLabsConfig{}, true},
		{"stability out of range", ElevenLabsConfig{APIKey: "key", Stability: 1.5}, true},
		{"clarity out of range", ElevenLabsConfig{APIKey: "key", Clarity: -0.5}, true},
		{"negative chunk size", ElevenLabsConfig{APIKey: "key", ChunkSize: -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateElevenLabsConfig(tc.config)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateElevenLabsConfig(%+v) = %v, wantErr %v", tc.config, err, tc.wantErr)
			}
		})
	}
}

func TestSynthesize_RequiresTextAndVoice(t *testing.T) {
	adapter, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewElevenLabsTTS failed: %v", err)
	}

	if _, err := adapter.Synthesize(context.Background(), "  ", repositories.VoiceConfig{VoiceID: "v1"}); err == nil {
		t.Error("blank text was accepted")
	}
	if _, err := adapter.Synthesize(context.Background(), "hola", repositories.VoiceConfig{}); err == nil {
		t.Error("missing voice ID was accepted")
	}
}

func TestSynthesize_StreamsChunks(t *testing.T) {
	audio := make([]byte, 2500) // spans three chunks at the test chunk size
	for i := range audio {
		audio[i] = byte(i % 251)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("xi-api-key = %q", r.Header.Get("xi-api-key"))
		}
		if r.URL.Path != "/text-to-speech/voice-1/stream" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write(audio)
	}))
	defer server.Close()

	adapter, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-key",
		APIBaseURL: server.URL,
		ChunkSize:  1024,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewElevenLabsTTS failed: %v", err)
	}

	audioChan, err := adapter.Synthesize(context.Background(), "hola", repositories.VoiceConfig{
		VoiceID:  "voice-1",
		Language: "es",
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	var received []byte
	for chunk := range audioChan {
		received = append(received, chunk...)
	}

	if len(received) != len(audio) {
		t.Fatalf("received %d bytes, want %d", len(received), len(audio))
	}
	for i := range received {
		if received[i] != audio[i] {
			t.Fatalf("byte %d = %d, want %d", i, received[i], audio[i])
		}
	}
}
