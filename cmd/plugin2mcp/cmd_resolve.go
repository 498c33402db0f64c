// Package main implements the resolve diagnostic command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plugin2mcp/internal/interceptor"
)

var resolveShowMessage bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <plugin:command>",
	Short: "Dry-run the intercept lookup for a skill name",
	Long: `Runs the same resolution the hook performs and prints the result,
without emitting the hook protocol. Useful for checking why an intercept
does or does not fire.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveShowMessage, "message", false, "Print the full system message")
}

func runResolve(cmd *cobra.Command, args []string) error {
	skill := args[0]

	match, found := interceptor.FindIntercept(skill, interceptor.Options{
		PluginsRoot:  cfg.Paths.PluginsRoot,
		ManifestPath: cfg.Paths.ManifestPath,
		MCPJSONPath:  cfg.Paths.MCPJSONPath,
	})
	if !found {
		fmt.Printf("No intercept for %q\n", skill)
		return nil
	}

	fmt.Printf("Plugin:        %s\n", match.PluginName)
	fmt.Printf("Command:       %s\n", match.CommandName)
	fmt.Printf("Server:        %s\n", match.MCPServerName)
	fmt.Printf("Tool:          %s\n", match.MCPToolName)
	fmt.Printf("Plugin dir:    %s\n", match.PluginDir)
	fmt.Printf("Command file:  %s\n", match.CommandMDPath)
	fmt.Printf("Skill files:   %d\n", len(match.SkillMDPaths))
	for _, p := range match.SkillMDPaths {
		fmt.Printf("  %s\n", p)
	}
	fmt.Printf("Server in ~/.claude/mcp.json: %v\n", match.ServerConfigured)

	if resolveShowMessage {
		fmt.Println()
		fmt.Println(interceptor.BuildSystemMessage(match))
	}
	return nil
}
