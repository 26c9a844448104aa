package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneLogsCmd = &cobra.Command{
	Use:   "prune-logs",
	Short: "Delete audit log files older than the retention window",
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("retention-days")
		if days == 0 {
			days = localCfg.RetentionDays
		}

		deleted, err := auditLog.Prune(days)
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			if deleted == nil {
				deleted = []string{}
			}
			outputJSON(map[string]any{"deleted": deleted, "retention-days": days})
			return
		}
		if len(deleted) == 0 {
			fmt.Printf("No log files older than %d day(s)\n", days)
			return
		}
		fmt.Printf("Deleted %d log file(s):\n", len(deleted))
		for _, name := range deleted {
			fmt.Printf("  %s\n", name)
		}
	},
}

func init() {
	pruneLogsCmd.Flags().Int("retention-days", 0, "Retention window in days (default: config retention-days)")
	rootCmd.AddCommand(pruneLogsCmd)
}
