// Package diagnostic provides structured errors and warnings for the
// clone! expander.
//
// Key capabilities:
//   - Stable codes for every rejected construct
//   - Byte-span locations resolvable to line and column
//   - Caret-annotated source snippets for terminal output
package diagnostic
