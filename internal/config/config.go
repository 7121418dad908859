package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the tutoring server
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Translation cache backing store. Only "mongodb" is implemented;
	// the flag exists so another store can be added without touching
	// the service layer.
	DBType        string `envconfig:"DB_TYPE" default:"mongodb"`
	MongoDBURL    string `envconfig:"MONGODB_URL" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"habla"`

	// DeepL translation API. Optional: without a key the translate
	// endpoint reports a configuration error but the tutor still runs.
	DeepLAPIKey            string  `envconfig:"DEEPL_API_KEY" default:""`
	DeepLRequestsPerSecond float64 `envconfig:"DEEPL_REQUESTS_PER_SECOND" default:"5"`

	// Chat provider configuration
	ChatProvider    string  `envconfig:"CHAT_PROVIDER" default:"openai"` // openai, gemini
	OpenAIAPIKey    string  `envconfig:"OPENAI_API_KEY" default:""`
	ChatModel       string  `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	ChatTemperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.7"`
	GeminiAPIKey    string  `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel     string  `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	// Speech-to-text provider configuration
	STTProvider string `envconfig:"STT_PROVIDER" default:"whisper"` // whisper, google
	STTModel    string `envconfig:"STT_MODEL" default:"whisper-1"`

	// Text-to-speech provider configuration
	TTSProvider      string  `envconfig:"TTS_PROVIDER" default:"elevenlabs"` // elevenlabs, openai
	ElevenLabsAPIKey string  `envconfig:"ELEVEN_LABS_API_KEY" default:""`
	TTSModel         string  `envconfig:"TTS_MODEL" default:"tts-1"`
	TTSVoice         string  `envconfig:"TTS_VOICE" default:"alloy"`
	TTSSpeed         float64 `envconfig:"TTS_SPEED" default:"1.0"`

	// Session configuration
	JWTSecret            string `envconfig:"JWT_SECRET" default:"development-secret"`
	SessionTokenTTLHours int    `envconfig:"SESSION_TOKEN_TTL_HOURS" default:"24"`
	MaxHistoryMessages   int    `envconfig:"MAX_HISTORY_MESSAGES" default:"20"`
}

// Load reads configuration from environment variables. It first attempts
// to load from a .env file if one exists, then from the environment.
func Load() (*Config, error) {
	// Ignore error if the .env file does not exist
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that provider selections are supported
func (c *Config) Validate() error {
	if c.DBType != "mongodb" {
		return fmt.Errorf("unsupported database type: %s", c.DBType)
	}

	switch c.ChatProvider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported chat provider: %s", c.ChatProvider)
	}

	switch c.STTProvider {
	case "whisper", "google":
	default:
		return fmt.Errorf("unsupported STT provider: %s", c.STTProvider)
	}

	switch c.TTSProvider {
	case "elevenlabs", "openai":
	default:
		return fmt.Errorf("unsupported TTS provider: %s", c.TTSProvider)
	}

	if c.MaxHistoryMessages <= 0 {
		return fmt.Errorf("MAX_HISTORY_MESSAGES must be positive, got %d", c.MaxHistoryMessages)
	}

	return nil
}
