package config

import (
	"path/filepath"
	"strings"
)

// DefaultFileName is where a project keeps its expander settings.
const DefaultFileName = ".letclone.yml"

// Config is the root of a .letclone.yml file.
type Config struct {
	// Version of the config schema.
	Version string `yaml:"version,omitempty"`

	// Extensions lists the file extensions to expand.
	Extensions []string `yaml:"extensions,omitempty"`

	// Exclude lists glob patterns for paths to skip. A pattern ending
	// in "/" or "/**" excludes a whole directory tree.
	Exclude []string `yaml:"exclude,omitempty"`

	// Output controls where rewritten source goes.
	Output OutputConfig `yaml:"output,omitempty"`

	// Watch tunes the filesystem watcher.
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// OutputConfig selects and shapes the output destination.
type OutputConfig struct {
	// Mode is one of stdout, write, or suffix.
	Mode string `yaml:"mode,omitempty"`

	// Suffix replaces the source extension in suffix mode.
	Suffix string `yaml:"suffix,omitempty"`

	// Header toggles the generated-code banner on suffixed files.
	Header *bool `yaml:"header,omitempty"`
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	// DebounceMS is how long a path must stay quiet before it is
	// re-expanded, in milliseconds.
	DebounceMS int `yaml:"debounce_ms,omitempty"`
}

// HeaderEnabled reports whether suffixed outputs get a banner.
func (o OutputConfig) HeaderEnabled() bool {
	return o.Header == nil || *o.Header
}

// MatchesExtension reports whether path ends in one of the configured
// extensions. Suffix comparison keeps multi-dot extensions like
// ".rs.in" usable.
func (c *Config) MatchesExtension(path string) bool {
	for _, e := range c.Extensions {
		if strings.HasSuffix(path, e) {
			return true
		}
	}

	return false
}

// Excluded reports whether path falls under any exclude pattern. Paths
// are compared slash-separated, and each pattern is tried against both
// the full path and its base name.
func (c *Config) Excluded(path string) bool {
	slashed := filepath.ToSlash(path)

	for _, pat := range c.Exclude {
		// filepath.Match has no "**"; "dir/**" names the same subtree
		// as "dir/".
		if strings.HasSuffix(pat, "/**") {
			pat = strings.TrimSuffix(pat, "**")
		}

		if strings.HasSuffix(pat, "/") {
			if strings.HasPrefix(slashed, pat) || strings.Contains(slashed, "/"+pat) {
				return true
			}

			continue
		}

		if ok, _ := filepath.Match(pat, slashed); ok {
			return true
		}

		if ok, _ := filepath.Match(pat, filepath.Base(slashed)); ok {
			return true
		}
	}

	return false
}
