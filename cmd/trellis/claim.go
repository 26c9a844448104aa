package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/debug"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the next eligible task and mark it in-progress",
	Long: `Pick the highest-priority open task whose prerequisites are all done,
mark it in-progress, and stamp it with the worktree identifier. Exits
non-zero when nothing is claimable; the error says whether the tree is
empty or everything is blocked.`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		rec, err := eng.ClaimNext(worktreeFlag)
		recordOp("claim", err, start)
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			outputJSON(rec.Object)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Claimed T-%s: %s\n", green("✓"), rec.ID, rec.Title)
		if debug.IsQuiet() {
			return
		}
		if rec.Worktree != "" {
			fmt.Printf("  Worktree: %s\n", rec.Worktree)
		}
		fmt.Printf("  File: %s\n", rec.Path)
	},
}

func init() {
	rootCmd.AddCommand(claimCmd)
}
