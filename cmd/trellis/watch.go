package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/trellisdev/trellis/internal/config"
	"github.com/trellisdev/trellis/internal/debug"
	"github.com/trellisdev/trellis/internal/paths"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the tree and report object file changes",
	Long: `Watch every directory under the planning root and print a line per
markdown change until interrupted. New directories are picked up as they
appear, so tasks created under a fresh feature are still reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			fail(err)
		}
		defer watcher.Close()

		if err := watchTree(watcher, rootDir); err != nil {
			fail(err)
		}
		debug.PrintNormal("Watching %s (ctrl-c to stop)\n", rootDir)

		for {
			select {
			case <-rootCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				handleWatchEvent(watcher, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			}
		}
	},
}

// watchTree registers the root and every subdirectory except the settings dir.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == config.ConfigDirName || strings.HasPrefix(d.Name(), ".git") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func handleWatchEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	// Newly created directories need their own watch before files land in them.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := watchTree(watcher, event.Name); err != nil {
				debug.Logf("adding watch for %s: %v", event.Name, err)
			}
			return
		}
	}

	if filepath.Ext(event.Name) != ".md" {
		return
	}
	rel, err := filepath.Rel(rootDir, event.Name)
	if err != nil {
		rel = event.Name
	}

	if jsonOutput {
		outputJSON(map[string]string{
			"op":   event.Op.String(),
			"path": rel,
			"id":   paths.IDFromFilename(filepath.Base(event.Name)),
		})
		return
	}
	fmt.Printf("%-8s %s\n", strings.ToLower(event.Op.String()), rel)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
