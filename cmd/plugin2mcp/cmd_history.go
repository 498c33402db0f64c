// Package main implements the history command over the invocation log.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"plugin2mcp/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent plugin command executions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath := filepath.Join(cfg.Paths.StateDir, "invocations.db")
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open invocation log: %w", err)
	}
	defer s.Close()

	ctx := context.Background()

	summary, err := s.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total: %d  Succeeded: %d  Avg latency: %dms\n\n",
		summary.Total, summary.Succeeded, summary.AvgLatencyMs)

	invocations, err := s.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(invocations) == 0 {
		fmt.Println("No recorded executions.")
		return nil
	}

	for _, inv := range invocations {
		status := "ok"
		if !inv.Success {
			status = "FAIL"
		}
		fmt.Printf("%s  %-4s  /%s:%s  %s  %d->%d tok  %dms\n",
			inv.CreatedAt.Format(time.DateTime), status,
			inv.PluginName, inv.CommandName, inv.Model,
			inv.InputTokens, inv.OutputTokens, inv.LatencyMs)
		if inv.ErrorMessage != "" {
			fmt.Printf("      %s\n", inv.ErrorMessage)
		}
	}
	return nil
}
