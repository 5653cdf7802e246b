package rewrite

import (
	"strings"

	"letclone/internal/diagnostic"
	"letclone/internal/expand"
)

// Result of rewriting one file.
type Result struct {
	// Output is the rewritten source. It is only meaningful when Diags
	// carries no errors; a file that fails anywhere is never emitted
	// half-expanded.
	Output string
	// Count is the number of invocations that expanded.
	Count int
	// Diags collects everything rejected along the way, located in file
	// coordinates.
	Diags diagnostic.Diagnostics
}

// File expands every clone! invocation in src. The name labels
// diagnostics; src is not read from disk here so callers can feed
// editors, tests, or watchers alike.
func File(name, src string) Result {
	var res Result

	invs, sdiags := Scan(src)
	res.Diags.MergeShifted(sdiags, name, 0)

	var b strings.Builder

	last := 0

	for _, inv := range invs {
		stmts, ediags := expand.Statements(inv.Content)
		res.Diags.MergeShifted(ediags, name, inv.ContentStart)

		if ediags.HasErrors() {
			continue
		}

		b.WriteString(src[last:inv.Span.Start])
		b.WriteString(strings.Join(stmts, "\n"+inv.Indent))

		last = inv.Span.End
		res.Count++
	}

	b.WriteString(src[last:])

	if res.Diags.HasErrors() {
		res.Output = ""
		res.Count = 0

		return res
	}

	res.Output = b.String()

	return res
}
