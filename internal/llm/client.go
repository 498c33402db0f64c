// Package llm wraps the text-generation call behind a small client interface
// so the executor can be tested without network access.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Default generation settings.
const (
	DefaultModel     = "gemini-3-flash-preview"
	DefaultMaxTokens = 16384
)

// Request is a single generation call.
type Request struct {
	System    string // optional system instruction
	Prompt    string // user prompt
	Model     string // empty selects the client default
	MaxTokens int    // <= 0 selects the client default
}

// Completion is the raw generation result plus usage metadata.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Client is implemented by generation backends.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// ResolveAPIKey resolves and validates an API key for generation calls:
// explicit value first, then the GEMINI_API_KEY / GOOGLE_API_KEY environment
// variables. The returned error text is user-facing; the delegation protocol
// tells the agent to prompt for a key when it appears.
func ResolveAPIKey(explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(env)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf(
		"no Gemini API key found. plugin2mcp requires a direct API key for LLM calls. " +
			"Set GEMINI_API_KEY or pass api_key explicitly")
}
