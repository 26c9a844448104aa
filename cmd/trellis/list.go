package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/scanner"
	"github.com/trellisdev/trellis/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List objects in the tree",
	Run: func(cmd *cobra.Command, args []string) {
		kindFilter, _ := cmd.Flags().GetString("kind")
		statusFilter, _ := cmd.Flags().GetString("status")
		if kindFilter != "" && !types.Kind(kindFilter).IsValid() {
			fail(fmt.Errorf("%w: %q", types.ErrInvalidKind, kindFilter))
		}

		records, err := scanner.Scan(rootDir)
		if err != nil {
			fail(err)
		}

		var matched []*scanner.Record
		for _, rec := range records {
			if kindFilter != "" && rec.Kind != types.Kind(kindFilter) {
				continue
			}
			if statusFilter != "" && rec.Status != types.Status(statusFilter) {
				continue
			}
			matched = append(matched, rec)
		}
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Kind != matched[j].Kind {
				return kindOrder(matched[i].Kind) < kindOrder(matched[j].Kind)
			}
			return matched[i].ID < matched[j].ID
		})

		if jsonOutput {
			objs := make([]*types.Object, 0, len(matched))
			for _, rec := range matched {
				objs = append(objs, rec.Object)
			}
			outputJSON(objs)
			return
		}

		if len(matched) == 0 {
			fmt.Println("No matching objects")
			return
		}
		cyan := color.New(color.FgCyan).SprintFunc()
		dim := color.New(color.Faint).SprintFunc()
		for _, rec := range matched {
			line := fmt.Sprintf("%s  [%s/%s]  %s",
				cyan(ids.Display(rec.ID, rec.Kind)), string(rec.Status), string(rec.Priority), rec.Title)
			if rec.Parent != "" {
				line += dim("  (parent: " + rec.Parent + ")")
			}
			fmt.Println(line)
		}
	},
}

func kindOrder(k types.Kind) int {
	switch k {
	case types.KindProject:
		return 0
	case types.KindEpic:
		return 1
	case types.KindFeature:
		return 2
	default:
		return 3
	}
}

func init() {
	listCmd.Flags().String("kind", "", "Filter by kind: project, epic, feature, task")
	listCmd.Flags().String("status", "", "Filter by status: draft, open, in-progress, review, done")
	rootCmd.AddCommand(listCmd)
}
