package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.json"))
	require.NoError(t, err)

	assert.Contains(t, cfg.Paths.PluginsRoot, ".claude")
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.Model)
	assert.Equal(t, 16384, cfg.LLM.MaxTokens)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"paths": {"plugins_root": "/opt/plugins"},
		"llm": {"model": "gemini-3-pro-preview", "max_tokens": 4096}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/plugins", cfg.Paths.PluginsRoot)
	// Manifest path follows the overridden root.
	assert.Equal(t, filepath.Join("/opt/plugins", "installed_plugins.json"), cfg.Paths.ManifestPath)
	assert.Equal(t, "gemini-3-pro-preview", cfg.LLM.Model)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	// Untouched fields keep their defaults.
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  plugins_root: /opt/plugins
logging:
  debug_mode: true
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/plugins", cfg.Paths.PluginsRoot)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEmptyPathProbesDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".plugin2mcp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"llm": {"model": "gemini-3-pro-preview"}}`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-3-pro-preview", cfg.LLM.Model)
}

func TestLoadEmptyPathWithoutDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.Model)
}

func TestLoadUnparsableFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverridesAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm": {"api_key": "file-key"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}
