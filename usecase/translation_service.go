package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain"
	"github.com/habla-ai/habla/domain/repositories"
	"github.com/habla-ai/habla/internal/observability"
)

// TranslationService is a read-through cache in front of the translation
// provider: it checks the cache first and only calls the paid API on a
// miss, storing the result before returning it.
type TranslationService struct {
	cache      repositories.TranslationCache
	translator repositories.Translator
	logger     *zap.Logger
}

// NewTranslationService creates a new translation service. A nil
// translator is allowed and reported per-call as a configuration error,
// so the rest of the application can run without a DeepL credential.
func NewTranslationService(
	cache repositories.TranslationCache,
	translator repositories.Translator,
	logger *zap.Logger,
) *TranslationService {
	return &TranslationService{
		cache:      cache,
		translator: translator,
		logger:     logger,
	}
}

// Configured reports whether a translation provider credential is present.
func (s *TranslationService) Configured() bool {
	return s.translator != nil
}

// CacheReady probes the cache connection. Used by the health endpoint so
// the reported database status reflects the connection as it is now, not
// as it was at startup.
func (s *TranslationService) CacheReady(ctx context.Context) bool {
	return s.cache.Ping(ctx) == nil
}

// Translate returns the translation of text into targetLang, and whether
// it was served from the cache. The language code is upper-cased before
// keying so "es" and "ES" share one cache entry.
//
// Two concurrent calls for the same uncached pair will both miss and both
// call the provider; the second Store wins. There is deliberately no
// per-key serialization here.
func (s *TranslationService) Translate(ctx context.Context, text, targetLang string) (string, bool, error) {
	start := time.Now()
	defer func() {
		observability.ObserveTranslateLatency(time.Since(start))
	}()

	lang := strings.ToUpper(targetLang)

	translation, found, err := s.cache.Lookup(ctx, text, lang)
	if err != nil {
		return "", false, err
	}
	if found {
		observability.RecordCacheLookup("hit")
		s.logger.Debug("Translation served from cache",
			zap.String("target_lang", lang))
		return translation, true, nil
	}
	observability.RecordCacheLookup("miss")

	// The provider is only needed on a miss, so cached pairs keep
	// answering even without a credential.
	if s.translator == nil {
		return "", false, domain.ErrTranslatorNotConfigured
	}

	// Provider failures propagate unchanged; no retry at this layer.
	translation, err = s.translator.Translate(ctx, text, lang)
	if err != nil {
		observability.RecordProviderCall("error")
		return "", false, err
	}
	observability.RecordProviderCall("ok")

	if err := s.cache.Store(ctx, text, lang, translation); err != nil {
		return "", false, err
	}

	s.logger.Info("Translation cached",
		zap.String("target_lang", lang),
		zap.Int("text_length", len(text)))

	return translation, false, nil
}
