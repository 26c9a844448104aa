package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trellisdev/trellis/internal/audit"
	"github.com/trellisdev/trellis/internal/config"
	"github.com/trellisdev/trellis/internal/debug"
	"github.com/trellisdev/trellis/internal/engine"
	"github.com/trellisdev/trellis/internal/telemetry"
)

var (
	rootDir      string
	jsonOutput   bool
	verboseFlag  bool
	quietFlag    bool
	worktreeFlag string

	localCfg *config.LocalConfig
	auditLog *audit.Logger
	eng      *engine.Engine

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Planning root directory (default: $TRELLIS_ROOT or current directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().StringVar(&worktreeFlag, "worktree", "", "Worktree identifier for claims (default: config worktree or $TRELLIS_WORKTREE)")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "trellis",
	Short: "trellis - Filesystem-native task planner",
	Long:  `Projects, epics, features, and tasks as markdown files with dependency-aware claiming. The directory tree is the database.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("trellis version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		resolveRoot()
		initViper()
		localCfg = config.LoadWithEnv(rootDir)
		if worktreeFlag == "" {
			worktreeFlag = localCfg.Worktree
		}
		if viper.GetBool("json") {
			jsonOutput = true
		}

		auditLog = audit.New(localCfg.LogDir)
		eng = engine.New(rootDir, auditLog)

		if err := telemetry.Init(rootCtx, "trellis", Version); err != nil {
			debug.Logf("telemetry init failed: %v", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(rootCtx)
		if rootCancel != nil {
			rootCancel()
		}
	},
}

// resolveRoot picks the planning root: --root flag, then $TRELLIS_ROOT,
// then the working directory.
func resolveRoot() {
	if rootDir == "" {
		rootDir = os.Getenv("TRELLIS_ROOT")
	}
	if rootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
			os.Exit(1)
		}
		rootDir = cwd
	}
	if abs, err := filepath.Abs(rootDir); err == nil {
		rootDir = abs
	}
}

// initViper wires <root>/.trellis/config.yaml plus TRELLIS_* env vars into
// viper for flag defaults. A missing config file is not an error.
func initViper() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(rootDir, config.ConfigDirName))
	viper.SetEnvPrefix("TRELLIS")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			debug.Logf("config read failed: %v", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
