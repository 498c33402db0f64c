// Package config loads plugin2mcp settings from a JSON or YAML file and
// fills in sensible defaults for everything the file leaves out.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Paths locates the directories and files plugin2mcp reads and writes.
type Paths struct {
	PluginsRoot  string `json:"plugins_root" yaml:"plugins_root"`
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	SettingsPath string `json:"settings_path" yaml:"settings_path"`
	MCPJSONPath  string `json:"mcp_json_path" yaml:"mcp_json_path"`
	StateDir     string `json:"state_dir" yaml:"state_dir"`
}

// LLM configures the generation backend.
type LLM struct {
	Provider  string `json:"provider" yaml:"provider"`
	APIKey    string `json:"api_key" yaml:"api_key"`
	Model     string `json:"model" yaml:"model"`
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`
	TimeoutS  int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Logging mirrors the debug logger's file-based configuration so both can be
// driven from one file.
type Logging struct {
	DebugMode  bool            `json:"debug_mode" yaml:"debug_mode"`
	Level      string          `json:"level" yaml:"level"`
	Categories map[string]bool `json:"categories" yaml:"categories"`
	JSONFormat bool            `json:"json_format" yaml:"json_format"`
}

// Config is the top-level configuration.
type Config struct {
	Paths   Paths   `json:"paths" yaml:"paths"`
	LLM     LLM     `json:"llm" yaml:"llm"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Paths: Paths{
			PluginsRoot:  filepath.Join(home, ".claude", "plugins"),
			ManifestPath: filepath.Join(home, ".claude", "plugins", "installed_plugins.json"),
			SettingsPath: filepath.Join(home, ".claude", "settings.json"),
			MCPJSONPath:  filepath.Join(home, ".claude", "mcp.json"),
			StateDir:     filepath.Join(home, ".plugin2mcp"),
		},
		LLM: LLM{
			Provider:  "gemini",
			Model:     "gemini-3-flash-preview",
			MaxTokens: 16384,
			TimeoutS:  120,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the standard config location,
// <state dir>/config.json under the user's home.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".plugin2mcp", "config.json")
}

// Load reads the configuration at path, chosen by extension (.json, .yaml,
// .yml). An empty path probes DefaultConfigPath. A missing file returns the
// defaults; a present but unparsable file is an error. Values the file omits
// keep their defaults, and GEMINI_API_KEY overrides any configured API key.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
				}
			default:
				if err := json.Unmarshal(data, cfg); err != nil {
					return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
				}
			}
		}
	}

	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		cfg.LLM.APIKey = key
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults refills any zero values so a sparse config file still yields
// a usable Config.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Paths.PluginsRoot == "" {
		c.Paths.PluginsRoot = def.Paths.PluginsRoot
	}
	if c.Paths.ManifestPath == "" {
		c.Paths.ManifestPath = filepath.Join(c.Paths.PluginsRoot, "installed_plugins.json")
	}
	if c.Paths.SettingsPath == "" {
		c.Paths.SettingsPath = def.Paths.SettingsPath
	}
	if c.Paths.MCPJSONPath == "" {
		c.Paths.MCPJSONPath = def.Paths.MCPJSONPath
	}
	if c.Paths.StateDir == "" {
		c.Paths.StateDir = def.Paths.StateDir
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = def.LLM.Model
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if c.LLM.TimeoutS <= 0 {
		c.LLM.TimeoutS = def.LLM.TimeoutS
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}
