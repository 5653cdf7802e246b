// Package watch re-expands source files as they change on disk.
//
// Key capabilities:
//   - Recursive directory watching, picking up directories created later
//   - Debounced handling so rapid editor saves expand once
//   - Extension and exclude filtering straight from the project config
package watch
