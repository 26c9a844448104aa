package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trellisdev/trellis/internal/config"
	"github.com/trellisdev/trellis/internal/debug"
	"github.com/trellisdev/trellis/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a planning root in the current (or --root) directory",
	Run: func(cmd *cobra.Command, args []string) {
		dirs := []string{
			paths.ProjectsDir,
			paths.TasksOpenDir,
			paths.TasksDoneDir,
			filepath.Join(config.ConfigDirName, "logs"),
		}
		for _, dir := range dirs {
			if err := os.MkdirAll(filepath.Join(rootDir, dir), 0o755); err != nil {
				fail(fmt.Errorf("creating %s: %w", dir, err))
			}
		}

		cfgPath := filepath.Join(rootDir, config.ConfigDirName, "config.yaml")
		if _, err := os.Lstat(cfgPath); os.IsNotExist(err) {
			data, err := yaml.Marshal(&config.LocalConfig{
				RetentionDays:   config.DefaultRetentionDays,
				DefaultPriority: "normal",
			})
			if err != nil {
				fail(err)
			}
			if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
				fail(err)
			}
		}

		if jsonOutput {
			outputJSON(map[string]string{"root": rootDir, "status": "initialized"})
			return
		}
		debug.PrintNormal("Initialized planning root at %s\n", rootDir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
