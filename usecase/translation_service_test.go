package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain"
)

// fakeCache is an in-memory TranslationCache keyed like the Mongo
// implementation: exact text plus upper-cased target language.
type fakeCache struct {
	mu        sync.Mutex
	entries   map[string]string
	connected bool
	lookups   int
	stores    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:   make(map[string]string),
		connected: true,
	}
}

func cacheKey(text, targetLang string) string {
	return targetLang + "\x00" + text
}

func (f *fakeCache) Connect(ctx context.Context) error {
	f.connected = true
	return nil
}

func (f *fakeCache) Disconnect(ctx context.Context) error {
	f.connected = false
	return nil
}

func (f *fakeCache) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return domain.ErrCacheNotConnected
	}
	return nil
}

func (f *fakeCache) Lookup(ctx context.Context, text, targetLang string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return "", false, domain.ErrCacheNotConnected
	}
	f.lookups++
	translation, ok := f.entries[cacheKey(text, targetLang)]
	return translation, ok, nil
}

func (f *fakeCache) Store(ctx context.Context, text, targetLang, translation string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return domain.ErrCacheNotConnected
	}
	f.stores++
	f.entries[cacheKey(text, targetLang)] = translation
	return nil
}

// fakeTranslator counts provider calls and returns a deterministic
// translation so tests can tell cache hits from provider round-trips.
type fakeTranslator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%s-%s-#%d", strings.ToLower(targetLang), text, f.calls), nil
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTranslate_MissThenHit(t *testing.T) {
	cache := newFakeCache()
	translator := &fakeTranslator{}
	service := NewTranslationService(cache, translator, zap.NewNop())

	first, cached, err := service.Translate(context.Background(), "hello", "ES")
	if err != nil {
		t.Fatalf("first Translate failed: %v", err)
	}
	if cached {
		t.Error("first call reported a cache hit on an empty cache")
	}

	second, cached, err := service.Translate(context.Background(), "hello", "ES")
	if err != nil {
		t.Fatalf("second Translate failed: %v", err)
	}
	if !cached {
		t.Error("second call missed the cache")
	}
	if second != first {
		t.Errorf("cached translation %q differs from stored %q", second, first)
	}
	if got := translator.callCount(); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}

func TestTranslate_LanguageCodeNormalization(t *testing.T) {
	cache := newFakeCache()
	translator := &fakeTranslator{}
	service := NewTranslationService(cache, translator, zap.NewNop())

	first, _, err := service.Translate(context.Background(), "hello", "es")
	if err != nil {
		t.Fatalf("Translate with lower-case code failed: %v", err)
	}

	second, cached, err := service.Translate(context.Background(), "hello", "ES")
	if err != nil {
		t.Fatalf("Translate with upper-case code failed: %v", err)
	}
	if !cached {
		t.Error("'es' and 'ES' did not share a cache entry")
	}
	if second != first {
		t.Errorf("got %q for ES, want the entry stored for es: %q", second, first)
	}
}

func TestTranslate_DistinctTargetsDistinctEntries(t *testing.T) {
	cache := newFakeCache()
	translator := &fakeTranslator{}
	service := NewTranslationService(cache, translator, zap.NewNop())

	if _, _, err := service.Translate(context.Background(), "hello", "ES"); err != nil {
		t.Fatalf("Translate to ES failed: %v", err)
	}
	_, cached, err := service.Translate(context.Background(), "hello", "FR")
	if err != nil {
		t.Fatalf("Translate to FR failed: %v", err)
	}
	if cached {
		t.Error("translation to a new target language hit the cache")
	}
	if got := translator.callCount(); got != 2 {
		t.Errorf("provider called %d times, want 2", got)
	}
}

func TestTranslate_NoTranslatorConfigured(t *testing.T) {
	service := NewTranslationService(newFakeCache(), nil, zap.NewNop())

	if service.Configured() {
		t.Error("Configured() = true with a nil translator")
	}

	_, _, err := service.Translate(context.Background(), "hello", "ES")
	if !errors.Is(err, domain.ErrTranslatorNotConfigured) {
		t.Errorf("got error %v, want ErrTranslatorNotConfigured", err)
	}
}

func TestTranslate_CacheHitWithoutTranslator(t *testing.T) {
	cache := newFakeCache()
	cache.entries[cacheKey("hello", "ES")] = "hola"
	service := NewTranslationService(cache, nil, zap.NewNop())

	translation, cached, err := service.Translate(context.Background(), "hello", "es")
	if err != nil {
		t.Fatalf("cached Translate failed without a provider: %v", err)
	}
	if !cached || translation != "hola" {
		t.Errorf("got (%q, %v), want (hola, true)", translation, cached)
	}
}

func TestTranslate_ProviderErrorPassesThrough(t *testing.T) {
	providerErr := errors.New("deepl: 456 quota exceeded")
	cache := newFakeCache()
	service := NewTranslationService(cache, &fakeTranslator{err: providerErr}, zap.NewNop())

	_, _, err := service.Translate(context.Background(), "hello", "ES")
	if !errors.Is(err, providerErr) {
		t.Errorf("got error %v, want provider error to pass through", err)
	}
	if cache.stores != 0 {
		t.Errorf("failed translation was stored %d times", cache.stores)
	}
}

func TestTranslate_CacheNotConnected(t *testing.T) {
	cache := newFakeCache()
	cache.connected = false
	service := NewTranslationService(cache, &fakeTranslator{}, zap.NewNop())

	_, _, err := service.Translate(context.Background(), "hello", "ES")
	if !errors.Is(err, domain.ErrCacheNotConnected) {
		t.Errorf("got error %v, want ErrCacheNotConnected", err)
	}
}

// Two concurrent misses for the same pair both reach the provider; the
// last Store wins. Both callers must still get a valid translation.
func TestTranslate_ConcurrentMisses(t *testing.T) {
	cache := newFakeCache()
	translator := &fakeTranslator{}
	service := NewTranslationService(cache, translator, zap.NewNop())

	const callers = 8
	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = service.Translate(context.Background(), "hello", "ES")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i] == "" {
			t.Errorf("caller %d got an empty translation", i)
		}
	}

	// Whatever raced in, the cache must hold exactly one entry and a
	// followup call must hit it without another provider round-trip.
	if len(cache.entries) != 1 {
		t.Errorf("cache holds %d entries, want 1", len(cache.entries))
	}
	before := translator.callCount()
	_, cached, err := service.Translate(context.Background(), "hello", "ES")
	if err != nil {
		t.Fatalf("followup Translate failed: %v", err)
	}
	if !cached {
		t.Error("followup call missed the cache")
	}
	if after := translator.callCount(); after != before {
		t.Errorf("followup call reached the provider (%d -> %d calls)", before, after)
	}
}
