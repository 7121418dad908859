package repositories

import "context"

// TranslationCache is the storage contract for cached translations, keyed
// by the exact (text, target language) pair. One concrete implementation
// exists today (MongoDB); the interface leaves room for others without
// touching the service layer.
type TranslationCache interface {
	// Connect establishes the storage connection and ensures the
	// uniqueness constraint on (text, target_lang) exists.
	Connect(ctx context.Context) error
	// Disconnect releases the storage connection. Idempotent, safe to
	// call even if Connect never ran.
	Disconnect(ctx context.Context) error
	// Lookup returns the cached translation for an exact-match key.
	// On hit it refreshes the last-accessed timestamp as a best-effort
	// side effect.
	Lookup(ctx context.Context, text, targetLang string) (translation string, found bool, err error)
	// Store upserts a translation by (text, targetLang), refreshing
	// both timestamps.
	Store(ctx context.Context, text, targetLang, translation string) error
	// Ping reports whether the storage connection is currently usable.
	Ping(ctx context.Context) error
}

// Translator abstracts the external paid translation provider.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}
