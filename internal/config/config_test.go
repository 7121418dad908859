package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBType != "mongodb" {
		t.Errorf("db type = %q, want mongodb", cfg.DBType)
	}
	if cfg.ChatProvider != "openai" {
		t.Errorf("chat provider = %q, want openai", cfg.ChatProvider)
	}
	if cfg.MaxHistoryMessages != 20 {
		t.Errorf("max history = %d, want 20", cfg.MaxHistoryMessages)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_PROVIDER", "gemini")
	t.Setenv("TTS_PROVIDER", "openai")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.ChatProvider != "gemini" {
		t.Errorf("chat provider = %q, want gemini", cfg.ChatProvider)
	}
	if cfg.TTSProvider != "openai" {
		t.Errorf("tts provider = %q, want openai", cfg.TTSProvider)
	}
}

func TestValidate_RejectsUnknownProviders(t *testing.T) {
	cases := []struct {
		name string
		env  string
		val  string
	}{
		{"database", "DB_TYPE", "postgres"},
		{"chat", "CHAT_PROVIDER", "llama"},
		{"stt", "STT_PROVIDER", "deepgram"},
		{"tts", "TTS_PROVIDER", "polly"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.env, tc.val)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s was accepted", tc.env, tc.val)
			}
		})
	}
}

func TestValidate_RejectsNonPositiveHistory(t *testing.T) {
	t.Setenv("MAX_HISTORY_MESSAGES", "0")

	if _, err := Load(); err == nil {
		t.Error("zero history limit was accepted")
	}
}
