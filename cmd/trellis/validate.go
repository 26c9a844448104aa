package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tree for invalid objects and dependency cycles",
	Run: func(cmd *cobra.Command, args []string) {
		err := eng.Validate()
		if err != nil {
			fail(err)
		}
		if jsonOutput {
			outputJSON(map[string]string{"status": "ok"})
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Tree is valid\n", green("✓"))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
