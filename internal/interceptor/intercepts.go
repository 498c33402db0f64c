package interceptor

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// ReadIntercepts scans a plugin's .mcp.json for a server whose intercepts list
// contains commandName. Returns the first claiming server in file order,
// together with its full intercepts list. A missing or malformed file, or an
// unexpected shape at any level, means no claim.
func ReadIntercepts(pluginDir, commandName string) (serverName string, intercepts []string, ok bool) {
	data, err := os.ReadFile(filepath.Join(pluginDir, mcpConfigName))
	if err != nil {
		return "", nil, false
	}

	var doc struct {
		MCPServers json.RawMessage `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, false
	}

	// Walk the mcpServers object with a token decoder so the scan follows
	// file order, not Go's randomized map order.
	dec := json.NewDecoder(bytes.NewReader(doc.MCPServers))
	tok, err := dec.Token()
	if err != nil {
		return "", nil, false
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '{' {
		return "", nil, false
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", nil, false
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", nil, false
		}

		var server struct {
			Intercepts []string `json:"intercepts"`
		}
		if err := json.Unmarshal(raw, &server); err != nil {
			continue // non-object server config, or intercepts isn't a list
		}
		for _, cmd := range server.Intercepts {
			if cmd == commandName {
				return name, server.Intercepts, true
			}
		}
	}

	return "", nil, false
}

// ListInterceptedCommands returns the commands a specific server claims in a
// plugin's .mcp.json, or nil if there are none. Used by MCP servers that
// auto-register one tool per intercepted command.
func ListInterceptedCommands(pluginDir, serverName string) []string {
	data, err := os.ReadFile(filepath.Join(pluginDir, mcpConfigName))
	if err != nil {
		return nil
	}

	var doc struct {
		MCPServers map[string]json.RawMessage `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	raw, found := doc.MCPServers[serverName]
	if !found {
		return nil
	}

	var server struct {
		Intercepts []string `json:"intercepts"`
	}
	if err := json.Unmarshal(raw, &server); err != nil {
		return nil
	}
	return server.Intercepts
}

// CheckServerConfigured reports whether an MCP server is registered in the
// user's mcp.json. Pure best-effort: any read or parse failure is false. The
// result only annotates a match, it never gates resolution.
func CheckServerConfigured(serverName, mcpJSONPath string) bool {
	if mcpJSONPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		mcpJSONPath = filepath.Join(home, ".claude", "mcp.json")
	}

	data, err := os.ReadFile(mcpJSONPath)
	if err != nil {
		return false
	}

	var doc struct {
		MCPServers map[string]json.RawMessage `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}

	_, found := doc.MCPServers[serverName]
	return found
}
