// Package installer manages the pieces that wire plugin2mcp into the agent
// environment: the PostToolUse hook in settings.json and the intercepts
// declarations in plugin .mcp.json files. All edits preserve unrelated keys.
package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"plugin2mcp/internal/logging"
)

const (
	hookMatcher = "Skill"
	hookTimeout = 10
)

// HookCommand is the shell command installed into settings.json. It must be
// on PATH for the hook to fire.
const HookCommand = "plugin2mcp hook"

// Binding reports one plugin whose .mcp.json declares intercepted commands.
type Binding struct {
	Plugin     string
	Server     string
	Intercepts []string
}

// InstallStatus is the result of a Status scan.
type InstallStatus struct {
	HookInstalled bool
	Bindings      []Binding
}

// InstallHook adds the PostToolUse Skill hook to the settings file. It is
// idempotent: an entry whose command matches is left alone.
func InstallHook(settingsPath string) error {
	settings := loadJSON(settingsPath)

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		hooks = map[string]interface{}{}
	}
	postToolUse, _ := hooks["PostToolUse"].([]interface{})

	for _, entry := range postToolUse {
		if matcherHasCommand(entry, HookCommand) {
			logging.Installer("hook already installed in %s", settingsPath)
			return nil
		}
	}

	postToolUse = append(postToolUse, map[string]interface{}{
		"matcher": hookMatcher,
		"hooks": []interface{}{
			map[string]interface{}{
				"type":    "command",
				"command": HookCommand,
				"timeout": hookTimeout,
			},
		},
	})
	hooks["PostToolUse"] = postToolUse
	settings["hooks"] = hooks

	if err := saveJSON(settingsPath, settings); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	logging.Installer("hook installed in %s", settingsPath)
	return nil
}

// UninstallHook removes our hook entries from the settings file, pruning the
// PostToolUse list and hooks object if they become empty. Other hooks are
// untouched.
func UninstallHook(settingsPath string) error {
	settings := loadJSON(settingsPath)

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		return nil
	}
	postToolUse, _ := hooks["PostToolUse"].([]interface{})
	if postToolUse == nil {
		return nil
	}

	var kept []interface{}
	for _, entry := range postToolUse {
		if !matcherHasCommand(entry, HookCommand) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(postToolUse) {
		return nil
	}

	if len(kept) > 0 {
		hooks["PostToolUse"] = kept
	} else {
		delete(hooks, "PostToolUse")
	}
	if len(hooks) > 0 {
		settings["hooks"] = hooks
	} else {
		delete(settings, "hooks")
	}

	if err := saveJSON(settingsPath, settings); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	logging.Installer("hook removed from %s", settingsPath)
	return nil
}

// HookInstalled reports whether the settings file contains our hook.
func HookInstalled(settingsPath string) bool {
	settings := loadJSON(settingsPath)
	hooks, _ := settings["hooks"].(map[string]interface{})
	postToolUse, _ := hooks["PostToolUse"].([]interface{})
	for _, entry := range postToolUse {
		if matcherHasCommand(entry, HookCommand) {
			return true
		}
	}
	return false
}

// matcherHasCommand reports whether a PostToolUse entry contains a command
// hook whose command string contains cmd.
func matcherHasCommand(entry interface{}, cmd string) bool {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return false
	}
	inner, _ := m["hooks"].([]interface{})
	for _, h := range inner {
		hm, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		if command, _ := hm["command"].(string); strings.Contains(command, cmd) {
			return true
		}
	}
	return false
}

// AddIntercepts declares commands as intercepted by serverName in the plugin
// directory's .mcp.json, merging with any existing list without duplicates.
// Both the live plugin copy and its cache copies are updated so a plugin
// reinstall does not lose the declaration.
func AddIntercepts(pluginDir, serverName string, commands []string) error {
	for _, dir := range withCacheCopies(pluginDir) {
		if err := addInterceptsToDir(dir, serverName, commands); err != nil {
			return err
		}
	}
	return nil
}

func addInterceptsToDir(pluginDir, serverName string, commands []string) error {
	mcpPath := filepath.Join(pluginDir, ".mcp.json")
	doc := loadJSON(mcpPath)

	servers, _ := doc["mcpServers"].(map[string]interface{})
	if servers == nil {
		servers = map[string]interface{}{}
	}
	server, _ := servers[serverName].(map[string]interface{})
	if server == nil {
		server = map[string]interface{}{}
	}

	existing, _ := server["intercepts"].([]interface{})
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		if s, ok := v.(string); ok {
			seen[s] = true
		}
	}
	for _, cmd := range commands {
		if !seen[cmd] {
			existing = append(existing, cmd)
			seen[cmd] = true
		}
	}

	server["intercepts"] = existing
	servers[serverName] = server
	doc["mcpServers"] = servers

	if err := saveJSON(mcpPath, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", mcpPath, err)
	}
	logging.Installer("declared %d intercepts for %s in %s", len(commands), serverName, mcpPath)
	return nil
}

// RemoveIntercepts removes the intercepts declaration for serverName from the
// plugin's .mcp.json (live and cache copies). If intercepts was the server
// entry's only key the whole entry is removed.
func RemoveIntercepts(pluginDir, serverName string) error {
	for _, dir := range withCacheCopies(pluginDir) {
		if err := removeInterceptsFromDir(dir, serverName); err != nil {
			return err
		}
	}
	return nil
}

func removeInterceptsFromDir(pluginDir, serverName string) error {
	mcpPath := filepath.Join(pluginDir, ".mcp.json")
	if _, err := os.Stat(mcpPath); err != nil {
		return nil
	}
	doc := loadJSON(mcpPath)

	servers, _ := doc["mcpServers"].(map[string]interface{})
	server, _ := servers[serverName].(map[string]interface{})
	if server == nil {
		return nil
	}
	if _, declared := server["intercepts"]; !declared {
		return nil
	}

	delete(server, "intercepts")
	if len(server) == 0 {
		delete(servers, serverName)
	} else {
		servers[serverName] = server
	}
	doc["mcpServers"] = servers

	if err := saveJSON(mcpPath, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", mcpPath, err)
	}
	logging.Installer("removed intercepts for %s from %s", serverName, mcpPath)
	return nil
}

// withCacheCopies returns pluginDir plus any versioned cache copies of the
// same plugin, so declaration edits reach every copy the resolver might find.
func withCacheCopies(pluginDir string) []string {
	dirs := []string{pluginDir}

	pluginName := filepath.Base(pluginDir)
	collection := filepath.Dir(pluginDir)
	root := filepath.Dir(collection)
	if filepath.Base(collection) != "knowledge-work-plugins" {
		return dirs
	}

	cacheDir := filepath.Join(root, "cache", "knowledge-work-plugins", pluginName)
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return dirs
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(cacheDir, e.Name()))
		}
	}
	return dirs
}

// Status scans the live plugin collection for intercept declarations and
// checks the hook.
func Status(pluginsRoot, settingsPath string) *InstallStatus {
	status := &InstallStatus{
		HookInstalled: HookInstalled(settingsPath),
	}

	collection := filepath.Join(pluginsRoot, "knowledge-work-plugins")
	entries, err := os.ReadDir(collection)
	if err != nil {
		return status
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		mcpPath := filepath.Join(collection, e.Name(), ".mcp.json")
		doc := loadJSON(mcpPath)
		servers, _ := doc["mcpServers"].(map[string]interface{})

		names := make([]string, 0, len(servers))
		for name := range servers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			server, _ := servers[name].(map[string]interface{})
			raw, _ := server["intercepts"].([]interface{})
			if len(raw) == 0 {
				continue
			}
			var intercepts []string
			for _, v := range raw {
				if s, ok := v.(string); ok {
					intercepts = append(intercepts, s)
				}
			}
			status.Bindings = append(status.Bindings, Binding{
				Plugin:     e.Name(),
				Server:     name,
				Intercepts: intercepts,
			})
		}
	}
	return status
}

// loadJSON reads a JSON object from path, returning an empty object when the
// file is missing or unparsable. Installer edits always start from whatever
// is on disk.
func loadJSON(path string) map[string]interface{} {
	doc := map[string]interface{}{}
	data, err := os.ReadFile(path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		logging.Installer("ignoring unparsable JSON at %s: %v", path, err)
		return map[string]interface{}{}
	}
	return doc
}

// saveJSON writes a JSON object with stable indentation, creating parent
// directories as needed.
func saveJSON(path string, doc map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
