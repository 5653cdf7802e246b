package diagnostic

import (
	"fmt"
	"strings"
)

// Position converts a byte offset in src into 1-based line and column.
// Offsets outside the source are clamped.
func Position(src string, off int) (line, col int) {
	if off < 0 {
		off = 0
	}

	if off > len(src) {
		off = len(src)
	}

	line = 1
	lineStart := 0

	for i := 0; i < off; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	return line, off - lineStart + 1
}

// Snippet renders a caret-annotated excerpt of src around the diagnostic
// span, with one line of context on each side:
//
//	app.rs:3:18: error: [tuple-index] cannot name a tuple index
//
//	   2 | let pair = make();
//	   3 | clone!(pair.0);
//	     |             ^
//	   4 | consume(pair);
func Snippet(src string, d Diagnostic) string {
	line, col := Position(src, d.Span.Start)
	lines := strings.Split(src, "\n")

	if len(lines) == 0 {
		lines = []string{""}
	}

	if line > len(lines) {
		line = len(lines)
	}

	lineTxt := lines[line-1]

	var b strings.Builder

	head := fmt.Sprintf("[%s] %s", d.Code, d.Message)
	if d.File != "" {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n\n", d.File, line, col, d.Severity, head)
	} else {
		fmt.Fprintf(&b, "%d:%d: %s: %s\n\n", line, col, d.Severity, head)
	}

	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}

	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)

	pad := col - 1
	if pad > len(lineTxt) {
		pad = len(lineTxt)
	}

	fmt.Fprintf(&b, "     | %s%s\n", padding(lineTxt, pad), carets(d, lineTxt, pad))

	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}

	return b.String()
}

// padding mirrors the first n bytes of the source line, keeping tabs so
// the caret stays under the span however wide the terminal draws them.
func padding(lineTxt string, n int) string {
	pad := make([]byte, n)

	for i := range pad {
		if lineTxt[i] == '\t' {
			pad[i] = '\t'
		} else {
			pad[i] = ' '
		}
	}

	return string(pad)
}

// carets sizes the marker run to the span, clamped to the current line.
func carets(d Diagnostic, lineTxt string, pad int) string {
	n := d.Span.End - d.Span.Start
	rest := len(lineTxt) - pad

	switch {
	case rest <= 0 || n < 1:
		n = 1
	case n > rest:
		n = rest
	}

	return strings.Repeat("^", n)
}
