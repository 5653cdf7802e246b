package rewrite

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// File permission constant.
const filePerm = 0o644

// Mode selects where rewritten source goes.
type Mode string

const (
	// ModeStdout streams the rewritten source to the writer's output.
	ModeStdout Mode = "stdout"
	// ModeWrite rewrites the source file in place.
	ModeWrite Mode = "write"
	// ModeSuffix writes a sibling file with the configured suffix.
	ModeSuffix Mode = "suffix"
)

// ParseMode validates a mode name from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStdout, ModeWrite, ModeSuffix:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown output mode %q (want stdout, write, or suffix)", s)
	}
}

// ModeNames lists the accepted mode names.
func ModeNames() []string {
	return []string{string(ModeStdout), string(ModeWrite), string(ModeSuffix)}
}

// Writer emits rewrite results according to its mode.
type Writer struct {
	// Mode selects the destination.
	Mode Mode
	// Suffix replaces the source extension in ModeSuffix.
	Suffix string
	// Header prepends a generated-code banner in ModeSuffix.
	Header bool
	// Out receives the source in ModeStdout. Defaults to os.Stdout.
	Out io.Writer
}

var headerTemplate = template.Must(template.New("header").Parse(
	`// Code generated by letclone. DO NOT EDIT.
// Source: {{.Source}}

`))

// Write emits one result. It returns the path written, or "" when the
// result went to stdout or nothing needed writing.
func (w *Writer) Write(path string, res Result) (string, error) {
	switch w.Mode {
	case ModeStdout, "":
		out := w.Out
		if out == nil {
			out = os.Stdout
		}

		if _, err := io.WriteString(out, res.Output); err != nil {
			return "", fmt.Errorf("writing output: %w", err)
		}

		return "", nil

	case ModeWrite:
		if res.Count == 0 {
			return "", nil
		}

		if err := os.WriteFile(path, []byte(res.Output), filePerm); err != nil {
			return "", fmt.Errorf("rewriting %s: %w", path, err)
		}

		return path, nil

	case ModeSuffix:
		if res.Count == 0 {
			return "", nil
		}

		target := strings.TrimSuffix(path, filepath.Ext(path)) + w.Suffix

		var buf bytes.Buffer

		if w.Header {
			if err := headerTemplate.Execute(&buf, struct{ Source string }{Source: filepath.Base(path)}); err != nil {
				return "", fmt.Errorf("rendering header: %w", err)
			}
		}

		buf.WriteString(res.Output)

		if err := os.WriteFile(target, buf.Bytes(), filePerm); err != nil {
			return "", fmt.Errorf("writing %s: %w", target, err)
		}

		return target, nil

	default:
		return "", fmt.Errorf("unknown output mode %q", w.Mode)
	}
}
