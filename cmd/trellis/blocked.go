package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/engine"
)

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "Show open tasks waiting on incomplete prerequisites",
	Run: func(cmd *cobra.Command, args []string) {
		tasks, err := eng.Blocked()
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			if tasks == nil {
				tasks = []*engine.BlockedTask{}
			}
			out := make([]map[string]any, 0, len(tasks))
			for _, bt := range tasks {
				out = append(out, map[string]any{
					"id":       bt.ID,
					"title":    bt.Title,
					"priority": string(bt.Priority),
					"blocking": bt.Blocking,
				})
			}
			outputJSON(out)
			return
		}

		if len(tasks) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("\n%s No blocked tasks\n\n", green("✨"))
			return
		}
		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("\n%s Blocked tasks (%d):\n\n", red("🔒"), len(tasks))
		for i, bt := range tasks {
			fmt.Printf("%d. [%s] T-%s: %s\n", i+1, string(bt.Priority), bt.ID, bt.Title)
			fmt.Printf("   Waiting on: %s\n", strings.Join(bt.Blocking, ", "))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(blockedCmd)
}
