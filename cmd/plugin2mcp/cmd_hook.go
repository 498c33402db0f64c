// Package main implements the PostToolUse hook entry point.
// This file handles the stdin/stdout hook protocol.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"plugin2mcp/internal/interceptor"
	"plugin2mcp/internal/logging"
)

// hookEvent is the PostToolUse payload delivered on stdin.
type hookEvent struct {
	ToolName  string `json:"tool_name"`
	ToolInput struct {
		Skill string `json:"skill"`
	} `json:"tool_input"`
}

// hookOutput is what the hook prints when an intercept fires.
type hookOutput struct {
	SystemMessage string `json:"systemMessage"`
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a PostToolUse hook (reads the event from stdin)",
	Long: `Reads a PostToolUse event from stdin. When the event is a Skill
invocation of an intercepted plugin command, prints a systemMessage that
redirects the agent to the plugin's MCP server.

The hook always exits 0: a hook failure must never break the tool call it
observes.`,
	Run: runHook,
}

func runHook(cmd *cobra.Command, args []string) {
	// The hook runs inside the tool-call latency budget.
	timer := logging.StartTimer(logging.CategoryHook, "hook dispatch")
	defer timer.StopWithThreshold(50 * time.Millisecond)

	// Everything in here is best effort. Parse failures, missing plugins,
	// and unreadable files all end in a silent, successful exit.
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		logging.Hook("failed to read stdin: %v", err)
		return
	}

	var event hookEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logging.Hook("unparsable hook event: %v", err)
		return
	}
	if event.ToolName != "Skill" {
		logging.HookDebug("ignoring tool %q", event.ToolName)
		return
	}
	skill := event.ToolInput.Skill
	logging.Hook("skill invocation: %q", skill)

	match, found := interceptor.FindIntercept(skill, interceptor.Options{
		PluginsRoot:  cfg.Paths.PluginsRoot,
		ManifestPath: cfg.Paths.ManifestPath,
		MCPJSONPath:  cfg.Paths.MCPJSONPath,
	})
	if !found {
		logging.HookDebug("no intercept for %q", skill)
		return
	}

	logging.Hook("intercepting %q -> server %s", skill, match.MCPServerName)

	out, err := json.Marshal(hookOutput{SystemMessage: interceptor.BuildSystemMessage(match)})
	if err != nil {
		logging.Hook("failed to encode hook output: %v", err)
		return
	}
	fmt.Println(string(out))
}
