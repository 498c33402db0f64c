// Package interceptor resolves qualified plugin commands ("legal:review-contract")
// to the MCP server that has claimed them, and renders the delegation message
// handed back to the invoking agent.
//
// Every lookup re-reads the on-disk artifacts (plugin directories, .mcp.json
// files) and returns a fresh, immutable match. The package holds no cross-call
// state, so concurrent resolutions are safe.
package interceptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plugin2mcp/internal/logging"
)

const (
	// pluginCollection is the directory name Claude uses for the managed
	// plugin set, both live and under cache/.
	pluginCollection = "knowledge-work-plugins"

	// mcpConfigName is the per-plugin MCP binding file.
	mcpConfigName = ".mcp.json"

	// manifestName maps plugin names to install paths.
	manifestName = "installed_plugins.json"
)

// InterceptMatch is the result of a successful interception lookup. It carries
// everything needed to build a systemMessage that tells the agent to delegate
// execution to the MCP tool. Constructed once per lookup, never mutated.
type InterceptMatch struct {
	PluginName       string   // e.g. "legal"
	CommandName      string   // e.g. "review-contract"
	MCPServerName    string   // e.g. "generate-redlined"
	MCPToolName      string   // e.g. "mcp__generate-redlined__execute_plugin_command"
	PluginDir        string   // absolute path to the plugin directory
	CommandMDPath    string   // absolute path to commands/<command>.md
	SkillMDPaths     []string // absolute paths to skills/*/SKILL.md, sorted by skill dir name
	ServerConfigured bool     // server present in the user's mcp.json (best effort)
}

// Options overrides the default lookup locations, mainly for tests.
// Zero values fall back to the standard ~/.claude layout.
type Options struct {
	PluginsRoot  string // default ~/.claude/plugins
	ManifestPath string // default <PluginsRoot>/installed_plugins.json
	MCPJSONPath  string // default ~/.claude/mcp.json
}

// DefaultPluginsRoot returns the standard plugin root under the user's home.
func DefaultPluginsRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "plugins")
	}
	return filepath.Join(home, ".claude", "plugins")
}

// ParseSkillName splits a qualified skill name into (plugin, command).
// Only the first colon splits, so "org:plugin:command" parses as
// ("org", "plugin:command"). Both halves must be non-empty.
func ParseSkillName(skillName string) (plugin, command string, ok bool) {
	idx := strings.Index(skillName, ":")
	if idx <= 0 || idx == len(skillName)-1 {
		return "", "", false
	}
	return skillName[:idx], skillName[idx+1:], true
}

// ToolName derives the MCP tool identifier for a server by naming convention.
func ToolName(serverName string) string {
	return "mcp__" + serverName + "__execute_plugin_command"
}

// FindIntercept is the main entry point: resolve a qualified skill name to an
// InterceptMatch. Any failed step short-circuits to (nil, false); the only
// distinguishable failure inside resolution is a missing command file, which
// is logged as a configuration problem before being swallowed here.
func FindIntercept(skillName string, opts Options) (*InterceptMatch, bool) {
	pluginName, commandName, ok := ParseSkillName(skillName)
	if !ok {
		return nil, false
	}

	pluginDir, ok := FindPluginDir(pluginName, opts.PluginsRoot, opts.ManifestPath)
	if !ok {
		logging.ResolveDebug("plugin %q not found", pluginName)
		return nil, false
	}

	serverName, _, ok := ReadIntercepts(pluginDir, commandName)
	if !ok {
		logging.ResolveDebug("no intercept claim for %q in %s", commandName, pluginDir)
		return nil, false
	}

	commandMD, skillMDs, err := ResolvePaths(pluginDir, commandName)
	if err != nil {
		// The one actionable misconfiguration: an intercept claim without
		// its instruction file.
		logging.Get(logging.CategoryResolve).Warn("intercept for %q unusable: %v", skillName, err)
		return nil, false
	}

	configured := CheckServerConfigured(serverName, opts.MCPJSONPath)
	logging.Resolve("intercept matched: %q -> server %s", skillName, serverName)

	return &InterceptMatch{
		PluginName:       pluginName,
		CommandName:      commandName,
		MCPServerName:    serverName,
		MCPToolName:      ToolName(serverName),
		PluginDir:        absPath(pluginDir),
		CommandMDPath:    commandMD,
		SkillMDPaths:     skillMDs,
		ServerConfigured: configured,
	}, true
}

// systemMessageTemplate is the fixed delegation protocol. Rendering is
// deterministic: the same match always produces byte-identical output.
const systemMessageTemplate = `IMPORTANT: Command Interception Active for /%s

This command has an MCP interception binding. Follow this protocol:

## What You Do:
Follow the command's context-gathering workflow yourself — accept input, gather user
context, load configuration/playbook files. Do this conversationally across as many
turns as needed.

## What You Delegate:
When context gathering is complete and you are ready to begin analysis/execution,
call the MCP tool instead of performing the work yourself:

  Tool: %s
  Parameters:
    command_name: "%s"
    command_md_path: "%s"
    skill_md_paths: '%s'
    source_paths: <JSON array of source file paths from the user>
    config_paths: <JSON array of playbook/config files you found>
    supplemental: <JSON object with all context gathered from the user>

## Rules:
1. Do NOT perform the analysis/execution yourself — the MCP tool handles it
2. Do NOT skip context gathering — the MCP tool needs the full context
3. After receiving the MCP tool result, present the markdown to the user and
   mention any files in output_paths
4. If the tool returns an API key error, ask the user for their Gemini API key`

// BuildSystemMessage renders the delegation instruction for a match.
// ServerConfigured is informational and deliberately not threaded into the
// rendered text.
func BuildSystemMessage(match *InterceptMatch) string {
	skillPaths := match.SkillMDPaths
	if skillPaths == nil {
		skillPaths = []string{}
	}
	skillPathsJSON, _ := json.Marshal(skillPaths)

	return fmt.Sprintf(systemMessageTemplate,
		match.CommandName,
		match.MCPToolName,
		match.CommandName,
		match.CommandMDPath,
		string(skillPathsJSON),
	)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
