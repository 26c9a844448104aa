package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/debug"
)

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Complete a claimed task and move it to tasks-done",
	Long: `Transition an in-progress or review task to done. The summary and
changed files are appended to the task's log section, and the file moves
to the sibling tasks-done directory with a completion timestamp prefix.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		summary, _ := cmd.Flags().GetString("summary")
		files, _ := cmd.Flags().GetStringSlice("file")
		if strings.TrimSpace(summary) == "" {
			fmt.Fprintln(os.Stderr, "Error: --summary is required")
			os.Exit(1)
		}

		start := time.Now()
		obj, donePath, err := eng.Complete(args[0], summary, files)
		recordOp("complete", err, start)
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			outputJSON(map[string]string{
				"id":     obj.ID,
				"status": string(obj.Status),
				"path":   donePath,
			})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Completed T-%s: %s\n", green("✓"), obj.ID, obj.Title)
		debug.PrintNormal("  Moved to: %s\n", donePath)
	},
}

func init() {
	completeCmd.Flags().String("summary", "", "One-line summary of the work (required)")
	completeCmd.Flags().StringSlice("file", nil, "Changed file path (repeatable)")
	rootCmd.AddCommand(completeCmd)
}
