package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"letclone/internal/expand"
	"letclone/internal/rewrite"
	"letclone/internal/suggest"
)

// historyFile keeps REPL history across sessions.
const historyFile = ".letclone_history"

const replHelp = `Type the content of a clone! invocation:

  state, mut cfg.db, registry.tx()

and the expanded let statements are printed. A full clone!(...); line
works too.

Commands:
  :help   show this help
  :quit   exit (also :exit or Ctrl-D)
`

// replCmd tries clone! requests interactively
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Try clone! requests interactively",
	Long: `Reads request lists from the terminal and prints the let
statements they expand to. Useful for checking how a binding will be
named before committing to it.`,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	loadHistory(ln, historyPath)

	fmt.Println("letclone repl - type :help for help, :quit to exit")

	for {
		line, err := ln.Prompt("clone> ")
		if err == liner.ErrPromptAborted {
			continue
		}

		if err == io.EOF {
			fmt.Println()
			break
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		ln.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := replCommand(input); quit {
				break
			}

			continue
		}

		evalLine(input)
	}

	saveHistory(ln, historyPath)

	return nil
}

// replCommand handles :-prefixed commands and reports whether the
// REPL should exit.
func replCommand(input string) bool {
	switch input {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Print(replHelp)
	default:
		if hint := suggest.Closest(input, []string{":help", ":quit", ":exit"}); hint != "" {
			fmt.Printf("unknown command %s (did you mean %s?)\n", input, hint)
		} else {
			fmt.Printf("unknown command %s (try :help)\n", input)
		}
	}

	return false
}

// evalLine expands one line of input and prints the result or its
// diagnostics.
func evalLine(input string) {
	// A full invocation goes through the file rewriter so surrounding
	// text survives; bare content goes straight to the expander.
	if strings.Contains(input, "clone!") {
		res := rewrite.File("repl", input)
		reportDiagnostics(input, res.Diags)

		if !res.Diags.HasErrors() {
			fmt.Println(res.Output)
		}

		return
	}

	stmts, diags := expand.Statements(input)
	reportDiagnostics(input, diags)

	for _, stmt := range stmts {
		fmt.Println(stmt)
	}
}

// replHistoryPath returns the history file location, or "" when no
// home directory is available.
func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, historyFile)
}

// loadHistory is best effort; a missing file is fine.
func loadHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = ln.ReadHistory(f)
}

// saveHistory is best effort.
func saveHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = ln.WriteHistory(f)
}
