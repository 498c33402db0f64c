package llm

import (
	"strings"
	"testing"
)

func TestResolveAPIKeyExplicit(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	key, err := ResolveAPIKey("  explicit-key  ")
	if err != nil {
		t.Fatal(err)
	}
	if key != "explicit-key" {
		t.Errorf("expected explicit key to win, got %q", key)
	}
}

func TestResolveAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	key, err := ResolveAPIKey("")
	if err != nil {
		t.Fatal(err)
	}
	if key != "google-key" {
		t.Errorf("got %q", key)
	}
}

func TestResolveAPIKeyPrecedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	key, err := ResolveAPIKey("")
	if err != nil {
		t.Fatal(err)
	}
	if key != "gemini-key" {
		t.Errorf("GEMINI_API_KEY must take precedence, got %q", key)
	}
}

func TestResolveAPIKeyMissing(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := ResolveAPIKey("   ")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error should tell the user how to fix it: %v", err)
	}
}
