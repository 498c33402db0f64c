// Package main implements the plugin2mcp CLI: a PostToolUse hook that
// intercepts plugin slash commands and redirects them to a dedicated MCP
// server, plus install and diagnostic commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"plugin2mcp/internal/config"
	"plugin2mcp/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded configuration, available to all subcommands.
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plugin2mcp",
	Short: "plugin2mcp - route plugin slash commands to an MCP server",
	Long: `plugin2mcp intercepts knowledge-work plugin commands at the Skill
hook boundary and redirects the agent to execute them through a dedicated
MCP server instead of inline.

The hook subcommand is wired into settings.json by "plugin2mcp install" and
runs on every PostToolUse Skill event.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The hook must never fail startup: a broken config file degrades
		// to defaults instead of breaking the tool call it observes.
		isHook := cmd.Name() == "hook"

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			if !isHook {
				return err
			}
			cfg = config.Default()
		}

		_ = logging.Initialize(cfg.Paths.StateDir)

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		// Hook output on stdout is protocol; keep zap on stderr only.
		zcfg.OutputPaths = []string{"stderr"}
		logger, err = zcfg.Build()
		if err != nil {
			if isHook {
				return nil
			}
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (default ~/.plugin2mcp/config.json)")

	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
