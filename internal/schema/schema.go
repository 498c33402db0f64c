// Package schema defines the wire types for plugin command interception.
package schema

// PluginInvocation is the universal payload for executing an intercepted
// plugin command. It captures everything needed to run the command via an
// MCP tool instead of directly in the agent's context.
type PluginInvocation struct {
	// Required
	CommandName   string `json:"command_name"`
	CommandMDPath string `json:"command_md_path"`

	// Instruction paths
	SkillMDPaths []string `json:"skill_md_paths,omitempty"`
	ConfigPaths  []string `json:"config_paths,omitempty"`

	// Source material. SourceTexts carries raw content as an alternative
	// to SourcePaths.
	SourcePaths []string `json:"source_paths,omitempty"`
	SourceTexts []string `json:"source_texts,omitempty"`

	// Runtime context gathered from the conversation
	Supplemental map[string]interface{} `json:"supplemental,omitempty"`

	// LLM configuration overrides
	APIKey    string `json:"api_key,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`

	// Output configuration
	OutputPath string `json:"output_path,omitempty"`

	// Optional metadata for logging/routing
	PluginName string `json:"plugin_name,omitempty"`
}

// PluginResult is the outcome of executing a plugin command.
type PluginResult struct {
	// Primary outputs
	Markdown       string                 `json:"markdown"`
	StructuredData map[string]interface{} `json:"structured_data"`

	// Generated files (DOCX, PDF, ...)
	OutputPaths []string `json:"output_paths"`

	// Execution metadata (request id, timing, token usage, model)
	Metadata map[string]interface{} `json:"metadata"`

	// Status
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}
