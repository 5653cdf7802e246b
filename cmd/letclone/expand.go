package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"letclone/internal/config"
	"letclone/internal/diagnostic"
	"letclone/internal/rewrite"
	"letclone/internal/watch"
)

// expand flags
var (
	flagWrite  bool
	flagSuffix string
	flagStdout bool
	flagWatch  bool
)

// expandCmd rewrites clone! invocations in the given paths
var expandCmd = &cobra.Command{
	Use:   "expand [path...]",
	Short: "Expand clone! invocations in files or directories",
	Long: `Expands every clone!(...) invocation found under the given paths.

Files named explicitly are always processed; directories are walked
honoring the configured extensions and excludes. Output goes to stdout
unless --write or --suffix (or the config file) says otherwise. A file
with any rejected request is reported and left untouched.`,
	RunE: runExpand,
}

// checkCmd reports diagnostics without touching any file
var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Report clone! diagnostics without writing anything",
	Long: `Runs the expander over the given paths but writes nothing.

Exits nonzero when any file contains a request that would be rejected,
which makes it suitable as a CI gate.`,
	RunE: runCheck,
}

func init() {
	expandCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "Rewrite files in place")
	expandCmd.Flags().StringVar(&flagSuffix, "suffix", "", "Write output next to each file with this suffix")
	expandCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print expanded output to stdout")
	expandCmd.Flags().BoolVar(&flagWatch, "watch", false, "Keep watching the directories and re-expand on change")
	expandCmd.MarkFlagsMutuallyExclusive("write", "suffix", "stdout")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applyOutputFlags(cfg)

	mode, err := rewrite.ParseMode(cfg.Output.Mode)
	if err != nil {
		return err
	}

	writer := &rewrite.Writer{
		Mode:   mode,
		Suffix: cfg.Output.Suffix,
		Header: cfg.Output.HeaderEnabled(),
		Out:    os.Stdout,
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	if flagWatch {
		return watchRoots(cfg, writer, roots)
	}

	files, err := collectFiles(cfg, roots)
	if err != nil {
		return err
	}

	failed := 0

	for _, path := range files {
		if !processFile(writer, path) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to expand", failed, len(files))
	}

	logger.Debug("expansion complete", zap.Int("files", len(files)))

	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	files, err := collectFiles(cfg, roots)
	if err != nil {
		return err
	}

	var bad, invocations int

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("reading file", zap.String("path", path), zap.Error(err))

			bad++

			continue
		}

		src := string(data)
		res := rewrite.File(path, src)

		reportDiagnostics(src, res.Diags)

		if res.Diags.HasErrors() {
			bad++
			continue
		}

		invocations += res.Count
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d files failed the check", bad, len(files))
	}

	fmt.Printf("checked %d files, %d invocations expand cleanly\n", len(files), invocations)

	return nil
}

// applyOutputFlags lets command-line flags override the configured
// output mode.
func applyOutputFlags(cfg *config.Config) {
	switch {
	case flagWrite:
		cfg.Output.Mode = string(rewrite.ModeWrite)
	case flagStdout:
		cfg.Output.Mode = string(rewrite.ModeStdout)
	case flagSuffix != "":
		cfg.Output.Mode = string(rewrite.ModeSuffix)
		cfg.Output.Suffix = flagSuffix
	}
}

// processFile expands a single file and reports its diagnostics. It
// returns false when the file could not be read, failed to expand, or
// the output could not be written.
func processFile(w *rewrite.Writer, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("reading file", zap.String("path", path), zap.Error(err))
		return false
	}

	src := string(data)
	res := rewrite.File(path, src)

	reportDiagnostics(src, res.Diags)

	if res.Diags.HasErrors() {
		return false
	}

	if res.Count == 0 {
		logger.Debug("no invocations", zap.String("path", path))
		return true
	}

	dest, err := w.Write(path, res)
	if err != nil {
		logger.Error("writing output", zap.String("path", path), zap.Error(err))
		return false
	}

	if dest != "" {
		logger.Info("expanded",
			zap.String("path", path),
			zap.Int("invocations", res.Count),
			zap.String("dest", dest))
	}

	return true
}

// reportDiagnostics prints caret-annotated snippets to stderr,
// warnings first so errors stay closest to the exit status.
func reportDiagnostics(src string, diags diagnostic.Diagnostics) {
	for _, d := range diags.Warnings {
		fmt.Fprint(os.Stderr, diagnostic.Snippet(src, d))
		fmt.Fprintln(os.Stderr)
	}

	for _, d := range diags.Errors {
		fmt.Fprint(os.Stderr, diagnostic.Snippet(src, d))
		fmt.Fprintln(os.Stderr)
	}
}

// collectFiles resolves the given paths into the list of files to
// expand. Files named explicitly are always included; directories are
// walked in lexical order so runs are deterministic.
func collectFiles(cfg *config.Config, roots []string) ([]string, error) {
	var files []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}

			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || cfg.Excluded(rel+"/")) {
					return fs.SkipDir
				}

				return nil
			}

			if !shouldExpand(cfg, path, rel) {
				return nil
			}

			files = append(files, path)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	return files, nil
}

// shouldExpand mirrors the watcher's file filter: configured
// extension, not excluded, and never our own suffixed output.
func shouldExpand(cfg *config.Config, path, rel string) bool {
	if !cfg.MatchesExtension(path) {
		return false
	}

	if cfg.Output.Mode == string(rewrite.ModeSuffix) && strings.HasSuffix(path, cfg.Output.Suffix) {
		return false
	}

	return !cfg.Excluded(rel)
}

// watchRoots sweeps each directory once, then keeps watching until
// interrupted.
func watchRoots(cfg *config.Config, w *rewrite.Writer, roots []string) error {
	handle := func(path string) {
		processFile(w, path)
	}

	watchers := make([]*watch.Watcher, 0, len(roots))

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", root, err)
		}

		if !info.IsDir() {
			return fmt.Errorf("watch mode takes directories, %s is a file", root)
		}

		wt, err := watch.New(root, cfg, logger, handle)
		if err != nil {
			return fmt.Errorf("creating watcher for %s: %w", root, err)
		}

		defer wt.Stop()

		watchers = append(watchers, wt)
	}

	// Expand what is already there before waiting for changes.
	for _, wt := range watchers {
		if err := wt.Rescan(); err != nil {
			logger.Error("initial scan failed", zap.Error(err))
		}
	}

	ctx := context.Background()

	for _, wt := range watchers {
		if err := wt.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
	}

	logger.Info("watching for changes", zap.Strings("roots", roots))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")

	for _, wt := range watchers {
		stats := wt.GetStats()
		logger.Info("watcher stats",
			zap.Int("expansions", stats.Expansions),
			zap.Int("created", stats.FilesCreated),
			zap.Int("modified", stats.FilesModified),
			zap.Int("removed", stats.FilesRemoved),
			zap.Int("errors", stats.Errors))
	}

	return nil
}
