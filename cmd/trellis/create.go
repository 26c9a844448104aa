package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/engine"
	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/types"
)

var createCmd = &cobra.Command{
	Use:   "create <kind> <title>",
	Short: "Create a project, epic, feature, or task",
	Long: `Create a new object. The id is derived from the title, so
'trellis create task "Fix login flow"' yields T-fix-login-flow. Epics,
features, and hierarchical tasks need --parent; projects and standalone
tasks do not.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind := types.Kind(strings.ToLower(args[0]))
		if !kind.IsValid() {
			fail(fmt.Errorf("%w: %q (expected project, epic, feature, or task)", types.ErrInvalidKind, args[0]))
		}
		title := strings.Join(args[1:], " ")

		parent, _ := cmd.Flags().GetString("parent")
		priority, _ := cmd.Flags().GetString("priority")
		prereqs, _ := cmd.Flags().GetStringSlice("prereq")
		if priority == "" {
			priority = localCfg.DefaultPriority
		}
		if p := types.Priority(priority); p.Rank() == 3 && p != "" {
			fmt.Fprintf(os.Stderr, "Error: invalid priority %q (expected high, normal, or low)\n", priority)
			os.Exit(1)
		}

		obj, path, err := eng.Create(engine.CreateRequest{
			Kind:          kind,
			Title:         title,
			Parent:        parent,
			Priority:      types.Priority(priority),
			Prerequisites: prereqs,
		})
		if err != nil {
			fail(err)
		}

		if jsonOutput {
			outputJSON(map[string]string{
				"id":   ids.Display(obj.ID, obj.Kind),
				"kind": string(obj.Kind),
				"path": path,
			})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created %s %s\n", green("✓"), string(obj.Kind), ids.Display(obj.ID, obj.Kind))
	},
}

func init() {
	createCmd.Flags().String("parent", "", "Parent object id (feature id for tasks, epic for features, project for epics)")
	createCmd.Flags().String("priority", "", "Priority: high, normal, or low (default: config default-priority)")
	createCmd.Flags().StringSlice("prereq", nil, "Prerequisite task ids (repeatable)")
	rootCmd.AddCommand(createCmd)
}
