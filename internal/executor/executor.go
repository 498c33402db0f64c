// Package executor runs intercepted plugin commands: it assembles the prompt,
// makes the generation call, splits the response into markdown and structured
// data, and applies any command-specific post-processing.
package executor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"plugin2mcp/internal/extract"
	"plugin2mcp/internal/llm"
	"plugin2mcp/internal/logging"
	"plugin2mcp/internal/prompt"
	"plugin2mcp/internal/schema"
	"plugin2mcp/internal/store"
)

// PostProcessor transforms a result after the generation call, e.g. rendering
// a redlined document from structured data. It may mutate the result in
// place. A returned error annotates the result but does not flip Success -
// the generation itself still succeeded.
type PostProcessor func(result *schema.PluginResult, inv *schema.PluginInvocation) error

// Executor composes the prompt builder, the LLM client, and response
// extraction. Post-processors are an explicit command-to-function table
// supplied at construction; there is no process-wide registry.
type Executor struct {
	client         llm.Client
	builder        *prompt.Builder
	postProcessors map[string]PostProcessor
	log            *store.InvocationStore // optional, best effort
}

// New creates an Executor. builder may be nil for the default prompt layout;
// postProcessors and invocationLog may be nil.
func New(client llm.Client, builder *prompt.Builder, postProcessors map[string]PostProcessor, invocationLog *store.InvocationStore) *Executor {
	if builder == nil {
		builder = prompt.NewBuilder("", nil)
	}
	return &Executor{
		client:         client,
		builder:        builder,
		postProcessors: postProcessors,
		log:            invocationLog,
	}
}

// Execute runs a plugin command end to end. Failures come back as a
// PluginResult with Success=false and a user-facing ErrorMessage; Execute
// never panics and never returns a partial result.
func (e *Executor) Execute(ctx context.Context, inv *schema.PluginInvocation, outputRequirements, systemPrompt string) *schema.PluginResult {
	start := time.Now()
	requestID := uuid.NewString()

	userPrompt := e.builder.Build(inv, outputRequirements)

	logging.Executor("executing command %q (request %s)", inv.CommandName, requestID)

	completion, err := e.client.Complete(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    userPrompt,
		Model:     inv.Model,
		MaxTokens: inv.MaxTokens,
	})
	if err != nil {
		result := &schema.PluginResult{
			Success:      false,
			ErrorMessage: err.Error(),
			Metadata:     e.metadata(requestID, inv, nil, start),
		}
		e.record(ctx, requestID, inv, result, nil, start)
		return result
	}

	markdown, structured := extract.Parse(completion.Text)

	result := &schema.PluginResult{
		Markdown:       markdown,
		StructuredData: structured,
		Success:        true,
		Metadata:       e.metadata(requestID, inv, completion, start),
	}

	if pp, found := e.postProcessors[inv.CommandName]; found {
		logging.Executor("running post-processor for command %q", inv.CommandName)
		if err := pp(result, inv); err != nil {
			logging.Get(logging.CategoryExecutor).Error("post-processor failed for %q: %v", inv.CommandName, err)
			// Keep the LLM result but note the post-processing error.
			result.ErrorMessage = "post-processing error: " + err.Error()
		}
	}

	// Elapsed time includes post-processing.
	result.Metadata["elapsed_seconds"] = time.Since(start).Seconds()

	e.record(ctx, requestID, inv, result, completion, start)
	return result
}

func (e *Executor) metadata(requestID string, inv *schema.PluginInvocation, completion *llm.Completion, start time.Time) map[string]interface{} {
	meta := map[string]interface{}{
		"request_id":      requestID,
		"command_name":    inv.CommandName,
		"elapsed_seconds": time.Since(start).Seconds(),
	}
	if completion != nil {
		meta["model"] = completion.Model
		meta["input_tokens"] = completion.InputTokens
		meta["output_tokens"] = completion.OutputTokens
	}
	return meta
}

// record appends the invocation to the execution log, if one is configured.
func (e *Executor) record(ctx context.Context, requestID string, inv *schema.PluginInvocation, result *schema.PluginResult, completion *llm.Completion, start time.Time) {
	if e.log == nil {
		return
	}
	rec := store.Invocation{
		RequestID:    requestID,
		PluginName:   inv.PluginName,
		CommandName:  inv.CommandName,
		Model:        inv.Model,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      result.Success,
		ErrorMessage: result.ErrorMessage,
	}
	if completion != nil {
		rec.Model = completion.Model
		rec.InputTokens = completion.InputTokens
		rec.OutputTokens = completion.OutputTokens
	}
	_ = e.log.Record(ctx, rec) // failures already logged by the store
}
