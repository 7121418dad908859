package deepl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/habla-ai/habla/domain"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, zaptest.NewLogger(t))
	if !errors.Is(err, domain.ErrTranslatorNotConfigured) {
		t.Errorf("got error %v, want ErrTranslatorNotConfigured", err)
	}
}

func TestNewClient_SelectsEndpointFromKey(t *testing.T) {
	logger := zaptest.NewLogger(t)

	free, err := NewClient(Config{APIKey: "abc123:fx"}, logger)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if free.apiBaseURL != freeAPIBaseURL {
		t.Errorf("free key routed to %q, want %q", free.apiBaseURL, freeAPIBaseURL)
	}

	pro, err := NewClient(Config{APIKey: "abc123"}, logger)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if pro.apiBaseURL != proAPIBaseURL {
		t.Errorf("pro key routed to %q, want %q", pro.apiBaseURL, proAPIBaseURL)
	}
}

func TestTranslate(t *testing.T) {
	var gotAuth, gotText, gotTarget string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %q, want /translate", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		gotText = r.PostFormValue("text")
		gotTarget = r.PostFormValue("target_lang")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"hola"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	translation, err := client.Translate(context.Background(), "hello", "ES")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if translation != "hola" {
		t.Errorf("translation = %q, want hola", translation)
	}
	if gotAuth != "DeepL-Auth-Key test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotText != "hello" || gotTarget != "ES" {
		t.Errorf("form = (%q, %q), want (hello, ES)", gotText, gotTarget)
	}
}

func TestTranslate_EmptyText(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.Translate(context.Background(), "  ", "ES"); err == nil {
		t.Error("blank text was accepted")
	}
}

func TestTranslate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Quota for this billing period has been exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Translate(context.Background(), "hello", "ES")
	if err == nil {
		t.Fatal("API error was swallowed")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not carry the status code", err)
	}
}

func TestTranslate_EmptyTranslations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.Translate(context.Background(), "hello", "ES"); err == nil {
		t.Error("empty translations array was accepted")
	}
}
