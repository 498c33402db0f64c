package interceptor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkillName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		plugin  string
		command string
		ok      bool
	}{
		{"simple", "legal:review-contract", "legal", "review-contract", true},
		{"extra colon splits once", "org:plugin:command", "org", "plugin:command", true},
		{"no colon", "review-contract", "", "", false},
		{"empty plugin", ":review", "", "", false},
		{"empty command", "legal:", "", "", false},
		{"bare colon", ":", "", "", false},
		{"empty string", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin, command, ok := ParseSkillName(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.plugin, plugin)
			assert.Equal(t, tt.command, command)
		})
	}
}

func TestToolName(t *testing.T) {
	assert.Equal(t, "mcp__generate-redlined__execute_plugin_command", ToolName("generate-redlined"))
}

// writePluginFixture lays out a plugin with one intercepted command and two
// skills under a fresh plugins root, returning the root.
func writePluginFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	pluginDir := filepath.Join(root, "knowledge-work-plugins", "legal")

	require.NoError(t, os.MkdirAll(filepath.Join(pluginDir, "commands"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(pluginDir, "commands", "review-contract.md"),
		[]byte("# Review Contract\n"), 0o644))

	for _, skill := range []string{"contract-analysis", "redlining"} {
		dir := filepath.Join(pluginDir, "skills", skill)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# "+skill+"\n"), 0o644))
	}
	// A skill directory without SKILL.md must be skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(pluginDir, "skills", "empty-skill"), 0o755))

	mcp := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"generate-redlined": map[string]interface{}{
				"command":    "npx",
				"intercepts": []string{"review-contract"},
			},
		},
	}
	data, err := json.MarshalIndent(mcp, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, ".mcp.json"), data, 0o644))

	return root
}

func TestFindIntercept(t *testing.T) {
	root := writePluginFixture(t)
	opts := Options{
		PluginsRoot: root,
		MCPJSONPath: filepath.Join(root, "no-such-mcp.json"),
	}

	match, found := FindIntercept("legal:review-contract", opts)
	require.True(t, found)
	assert.Equal(t, "legal", match.PluginName)
	assert.Equal(t, "review-contract", match.CommandName)
	assert.Equal(t, "generate-redlined", match.MCPServerName)
	assert.Equal(t, "mcp__generate-redlined__execute_plugin_command", match.MCPToolName)
	assert.True(t, filepath.IsAbs(match.CommandMDPath))
	assert.True(t, strings.HasSuffix(match.CommandMDPath, filepath.Join("commands", "review-contract.md")))

	require.Len(t, match.SkillMDPaths, 2)
	assert.Contains(t, match.SkillMDPaths[0], "contract-analysis")
	assert.Contains(t, match.SkillMDPaths[1], "redlining")

	assert.False(t, match.ServerConfigured)
}

func TestFindInterceptServerConfigured(t *testing.T) {
	root := writePluginFixture(t)
	mcpJSON := filepath.Join(root, "mcp.json")
	require.NoError(t, os.WriteFile(mcpJSON,
		[]byte(`{"mcpServers": {"generate-redlined": {"command": "npx"}}}`), 0o644))

	match, found := FindIntercept("legal:review-contract", Options{
		PluginsRoot: root,
		MCPJSONPath: mcpJSON,
	})
	require.True(t, found)
	assert.True(t, match.ServerConfigured)
}

func TestFindInterceptMisses(t *testing.T) {
	root := writePluginFixture(t)
	opts := Options{PluginsRoot: root, MCPJSONPath: filepath.Join(root, "none.json")}

	for _, skill := range []string{
		"review-contract",       // unqualified
		"legal:unknown-command", // no claim
		"unknown:review",        // no such plugin
		"",
	} {
		_, found := FindIntercept(skill, opts)
		assert.False(t, found, "expected no intercept for %q", skill)
	}
}

func TestFindInterceptMissingCommandFile(t *testing.T) {
	root := writePluginFixture(t)
	require.NoError(t, os.Remove(
		filepath.Join(root, "knowledge-work-plugins", "legal", "commands", "review-contract.md")))

	_, found := FindIntercept("legal:review-contract", Options{PluginsRoot: root})
	assert.False(t, found)
}

func TestBuildSystemMessage(t *testing.T) {
	match := &InterceptMatch{
		PluginName:    "legal",
		CommandName:   "review-contract",
		MCPServerName: "generate-redlined",
		MCPToolName:   ToolName("generate-redlined"),
		CommandMDPath: "/plugins/legal/commands/review-contract.md",
		SkillMDPaths:  []string{"/plugins/legal/skills/a/SKILL.md"},
	}

	msg := BuildSystemMessage(match)
	assert.Contains(t, msg, "Command Interception Active for /review-contract")
	assert.Contains(t, msg, "Tool: mcp__generate-redlined__execute_plugin_command")
	assert.Contains(t, msg, `command_name: "review-contract"`)
	assert.Contains(t, msg, `command_md_path: "/plugins/legal/commands/review-contract.md"`)
	assert.Contains(t, msg, `["/plugins/legal/skills/a/SKILL.md"]`)
}

func TestBuildSystemMessageNoSkills(t *testing.T) {
	match := &InterceptMatch{
		CommandName:   "triage",
		MCPToolName:   ToolName("support"),
		CommandMDPath: "/p/commands/triage.md",
	}
	msg := BuildSystemMessage(match)
	assert.Contains(t, msg, "skill_md_paths: '[]'")
}
