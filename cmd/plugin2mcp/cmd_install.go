// Package main implements the install, uninstall, and status commands.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"plugin2mcp/internal/installer"
)

var (
	installPlugin   string
	installServer   string
	installCommands []string

	uninstallPlugin string
	uninstallServer string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Skill hook and declare intercepted commands",
	Long: `Installs the PostToolUse hook into settings.json. With --plugin and
--server, additionally declares the given commands as intercepted in the
plugin's .mcp.json (live and cache copies).`,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove intercept declarations and, when none remain, the hook",
	RunE:  runUninstall,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show hook state and declared intercepts",
	RunE:  runStatus,
}

func init() {
	installCmd.Flags().StringVar(&installPlugin, "plugin", "", "Plugin name to declare intercepts for")
	installCmd.Flags().StringVar(&installServer, "server", "", "MCP server name that handles the intercepts")
	installCmd.Flags().StringSliceVar(&installCommands, "commands", nil, "Command names to intercept")

	uninstallCmd.Flags().StringVar(&uninstallPlugin, "plugin", "", "Plugin name to remove intercepts from")
	uninstallCmd.Flags().StringVar(&uninstallServer, "server", "", "MCP server name whose intercepts to remove")
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := installer.InstallHook(cfg.Paths.SettingsPath); err != nil {
		return err
	}
	fmt.Printf("Hook installed in %s\n", cfg.Paths.SettingsPath)

	if installPlugin == "" {
		return nil
	}
	if installServer == "" || len(installCommands) == 0 {
		return fmt.Errorf("--plugin requires --server and --commands")
	}

	pluginDir := filepath.Join(cfg.Paths.PluginsRoot, "knowledge-work-plugins", installPlugin)
	if err := installer.AddIntercepts(pluginDir, installServer, installCommands); err != nil {
		return err
	}
	fmt.Printf("Declared intercepts for /%s:{%s} -> %s\n",
		installPlugin, strings.Join(installCommands, ","), installServer)
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	if uninstallPlugin != "" {
		if uninstallServer == "" {
			return fmt.Errorf("--plugin requires --server")
		}
		pluginDir := filepath.Join(cfg.Paths.PluginsRoot, "knowledge-work-plugins", uninstallPlugin)
		if err := installer.RemoveIntercepts(pluginDir, uninstallServer); err != nil {
			return err
		}
		fmt.Printf("Removed intercepts for %s from %s\n", uninstallServer, uninstallPlugin)
	}

	// Keep the hook while any plugin still declares intercepts.
	status := installer.Status(cfg.Paths.PluginsRoot, cfg.Paths.SettingsPath)
	if len(status.Bindings) > 0 {
		fmt.Printf("Hook left in place: %d intercept binding(s) remain\n", len(status.Bindings))
		return nil
	}

	if err := installer.UninstallHook(cfg.Paths.SettingsPath); err != nil {
		return err
	}
	fmt.Println("Hook removed")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	status := installer.Status(cfg.Paths.PluginsRoot, cfg.Paths.SettingsPath)

	if status.HookInstalled {
		fmt.Println("Hook: installed")
	} else {
		fmt.Println("Hook: not installed")
	}

	if len(status.Bindings) == 0 {
		fmt.Println("Intercepts: none declared")
		return nil
	}
	fmt.Println("Intercepts:")
	for _, b := range status.Bindings {
		fmt.Printf("  /%s -> %s: %s\n", b.Plugin, b.Server, strings.Join(b.Intercepts, ", "))
	}
	return nil
}
