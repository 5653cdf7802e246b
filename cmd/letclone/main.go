// Package main provides the CLI entrypoint for letclone.
//
// letclone is a source-to-source preprocessor that:
//   - Finds clone!(...) invocations in source trees
//   - Expands each request into `let` clone bindings
//   - Reports rejected constructs with caret-annotated diagnostics
//   - Can watch a tree and re-expand files as they change
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"letclone/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "letclone",
	Short: "letclone - expand clone! invocations into let bindings",
	Long: `letclone rewrites clone!(...) invocations into explicit clone statements.

Each comma-separated request becomes one binding named after the final
segment of the expression:

  clone!(state, mut cfg.db, registry.tx());

becomes

  let state = state.clone();
  let mut db = cfg.db.clone();
  let tx = registry.tx().clone();

Run "letclone expand" over a tree, "letclone check" in CI, or
"letclone repl" to try requests interactively.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error

		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.DefaultFileName + " to the current directory",
	Long: `Creates a starter config file with the defaults spelled out:

  extensions to expand, paths to exclude, the output mode, and the
  watch debounce. Refuses to overwrite an existing file.`,
	RunE: runInit,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Path to the config file")

	// Add commands to root
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", configPath)
	}

	if err := config.WriteFile(config.Default(), configPath); err != nil {
		return err
	}

	logger.Info("wrote config", zap.String("path", configPath))

	return nil
}

// loadConfig reads the config file named by the --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("config loaded",
		zap.String("path", configPath),
		zap.String("mode", cfg.Output.Mode),
		zap.Strings("extensions", cfg.Extensions))

	return cfg, nil
}
