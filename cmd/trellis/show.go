package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/types"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one object's frontmatter and body",
	Long:  `Resolve a prefixed id (P-, E-, F-, T-) to its file and print it. Unprefixed ids are treated as tasks.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		obj, body, path, err := eng.Get(args[0])
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			outputJSON(struct {
				*types.Object
				Path string `json:"path"`
				Body string `json:"body"`
			}{obj, path, body})
			return
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %s\n", cyan(ids.Display(obj.ID, obj.Kind)), bold(obj.Title))
		fmt.Printf("  kind: %s  status: %s  priority: %s\n", string(obj.Kind), string(obj.Status), string(obj.Priority))
		if obj.Parent != "" {
			fmt.Printf("  parent: %s\n", obj.Parent)
		}
		if len(obj.Prerequisites) > 0 {
			fmt.Printf("  prerequisites: %s\n", strings.Join(obj.Prerequisites, ", "))
		}
		if obj.Worktree != "" {
			fmt.Printf("  worktree: %s\n", obj.Worktree)
		}
		fmt.Printf("  file: %s\n", path)
		if strings.TrimSpace(body) != "" {
			fmt.Printf("\n%s\n", strings.TrimRight(body, "\n"))
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
