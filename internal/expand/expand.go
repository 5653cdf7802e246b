// Package expand renders parsed clone requests as let statements.
package expand

import (
	"fmt"

	"letclone/internal/diagnostic"
	"letclone/internal/parse"
)

// Statement renders one clone request. The expression is spliced exactly
// as written, so formatting inside it survives.
func Statement(req parse.Request) string {
	if req.Mut {
		return fmt.Sprintf("let mut %s = %s.clone();", req.Expr.Name, req.Expr.Text)
	}

	return fmt.Sprintf("let %s = %s.clone();", req.Expr.Name, req.Expr.Text)
}

// Statements expands invocation content into let statements, one per
// request, in writing order. Order matters: each binding is visible to
// the statements after it, exactly like hand-written sequential lets.
// When any request is rejected the invocation yields no statements at
// all, only diagnostics.
func Statements(content string) ([]string, diagnostic.Diagnostics) {
	reqs, diags := parse.Parse(content)
	if diags.HasErrors() {
		return nil, diags
	}

	stmts := make([]string, 0, len(reqs))
	for _, req := range reqs {
		stmts = append(stmts, Statement(req))
	}

	return stmts, diags
}
