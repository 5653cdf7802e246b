// Package rewrite finds clone! invocations in source files and splices
// in their expansions.
//
// Key capabilities:
//   - Literal-aware scanning: invocations inside comments, strings, raw
//     strings, and char literals are never touched
//   - Balanced-delimiter extraction, so string arguments containing
//     parentheses cannot derail an invocation
//   - Indentation-preserving splices with multi-statement expansions
//   - Output modes for stdout, in-place writes, and suffixed siblings
package rewrite
