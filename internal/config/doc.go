// Package config loads and validates the .letclone.yml project file.
//
// Key capabilities:
//   - YAML schema with defaults applied on load
//   - Output mode validation shared with the rewriter
//   - File selection by extension and exclude globs
package config
