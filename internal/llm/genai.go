package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"plugin2mcp/internal/logging"
)

// GenAIClient implements Client using Google's Gemini API.
type GenAIClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGenAIClient creates a Gemini-backed client. Empty model and non-positive
// maxTokens select the package defaults.
func NewGenAIClient(ctx context.Context, apiKey, model string, maxTokens int) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Complete runs a single generation call and returns the text plus usage.
func (c *GenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	logging.ExecutorDebug("GenAI call: model=%s max_tokens=%d", model, maxTokens)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("GenAI call failed: %w", err)
	}

	completion := &Completion{
		Text:  resp.Text(),
		Model: model,
	}
	if resp.UsageMetadata != nil {
		completion.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		completion.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return completion, nil
}
