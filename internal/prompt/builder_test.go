package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugin2mcp/internal/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildFullInvocation(t *testing.T) {
	dir := t.TempDir()
	commandMD := writeFile(t, dir, "review.md", "Review the contract carefully.")
	skillMD := writeFile(t, dir, "SKILL.md", "Contract analysis expertise.")
	configPath := writeFile(t, dir, "playbook.md", "Escalate above $1M.")
	sourcePath := writeFile(t, dir, "contract.txt", "THIS AGREEMENT is made...")

	b := NewBuilder("", nil)
	got := b.Build(&schema.PluginInvocation{
		CommandName:   "review-contract",
		CommandMDPath: commandMD,
		SkillMDPaths:  []string{skillMD},
		ConfigPaths:   []string{configPath},
		SourcePaths:   []string{sourcePath},
		SourceTexts:   []string{"Pasted clause text."},
		Supplemental:  map[string]interface{}{"party": "Acme Corp"},
	}, "Return markdown plus a JSON summary.")

	assert.Contains(t, got, `invoked the "review-contract" command`)
	assert.Contains(t, got, "Review the contract carefully.")
	assert.Contains(t, got, "### Skill 1: SKILL")
	assert.Contains(t, got, "Contract analysis expertise.")
	assert.Contains(t, got, "### playbook.md")
	assert.Contains(t, got, "THIS AGREEMENT is made...")
	assert.Contains(t, got, "### Text 1")
	assert.Contains(t, got, "Pasted clause text.")
	assert.Contains(t, got, `"party": "Acme Corp"`)
	assert.Contains(t, got, "Return markdown plus a JSON summary.")
}

func TestBuildEmptySections(t *testing.T) {
	dir := t.TempDir()
	commandMD := writeFile(t, dir, "cmd.md", "Do the thing.")

	got := NewBuilder("", nil).Build(&schema.PluginInvocation{
		CommandName:   "triage",
		CommandMDPath: commandMD,
	}, "")

	assert.Contains(t, got, "No skills specified.")
	assert.Contains(t, got, "No configuration provided.")
	assert.Contains(t, got, "No source material provided.")
	assert.Contains(t, got, "No additional context provided.")
}

func TestBuildMissingFilesDegrade(t *testing.T) {
	got := NewBuilder("", nil).Build(&schema.PluginInvocation{
		CommandName:   "triage",
		CommandMDPath: "/no/such/command.md",
		SourcePaths:   []string{"/no/such/source.txt"},
	}, "")

	assert.Contains(t, got, "[File not found: /no/such/command.md]")
	assert.Contains(t, got, "/no/such/source.txt")
}

func TestBuildCustomReader(t *testing.T) {
	dir := t.TempDir()
	commandMD := writeFile(t, dir, "cmd.md", "x")
	docPath := writeFile(t, dir, "report.fake", "raw bytes")

	readers := DefaultReaders()
	readers[".fake"] = func(path string) (string, error) {
		return "converted: " + filepath.Base(path), nil
	}

	got := NewBuilder("", readers).Build(&schema.PluginInvocation{
		CommandName:   "c",
		CommandMDPath: commandMD,
		SourcePaths:   []string{docPath},
	}, "")

	assert.Contains(t, got, "converted: report.fake")
	assert.False(t, strings.Contains(got, "raw bytes"))
}

func TestBuildCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	commandMD := writeFile(t, dir, "cmd.md", "body")

	got := NewBuilder("CMD={command_name} REQ={output_requirements}", nil).
		Build(&schema.PluginInvocation{CommandName: "c", CommandMDPath: commandMD}, "r")

	assert.Equal(t, "CMD=c REQ=r", got)
}
