package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/scanner"
	"github.com/trellisdev/trellis/internal/types"
)

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Show claimable tasks (open, all prerequisites done)",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		tasks, err := eng.Ready()
		if err != nil {
			fail(err)
		}
		if limit > 0 && len(tasks) > limit {
			tasks = tasks[:limit]
		}

		if jsonOutput {
			if tasks == nil {
				tasks = []*scanner.Record{}
			}
			objs := make([]*types.Object, 0, len(tasks))
			for _, rec := range tasks {
				objs = append(objs, rec.Object)
			}
			outputJSON(objs)
			return
		}

		if len(tasks) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s No ready tasks\n\n", yellow("✨"))
			return
		}
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Ready work (%d task(s) with no blockers):\n\n", cyan("📋"), len(tasks))
		for i, rec := range tasks {
			fmt.Printf("%d. [%s] T-%s: %s\n", i+1, string(rec.Priority), rec.ID, rec.Title)
			if rec.Parent != "" {
				fmt.Printf("   Feature: %s\n", rec.Parent)
			}
		}
		fmt.Println()
	},
}

func init() {
	readyCmd.Flags().Int("limit", 0, "Show at most N tasks (0 = all)")
	rootCmd.AddCommand(readyCmd)
}
