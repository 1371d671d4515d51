// Package filter decides which entries of a directory walk are left alone.
package filter

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/pkg/pathmatch"
)

// Filter excludes walk entries matching any of its patterns.
// Files named explicitly on the command line are never filtered.
type Filter struct {
	excludes *pathmatch.Matcher
}

// New compiles the exclusion patterns into a reusable filter.
func New(excludes []string) (*Filter, error) {
	matcher, err := pathmatch.NewMatcher(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{excludes: matcher}, nil
}

// Load merges the patterns given directly with those read from the JSONC file
// at from, when set.
func Load(fsys afero.Fs, excludes []string, from string) (*Filter, error) {
	patterns := append([]string{}, excludes...)

	if from != "" {
		loaded, err := LoadPatterns(fsys, from)
		if err != nil {
			return nil, fmt.Errorf("loading exclude patterns: %w", err)
		}

		patterns = append(patterns, loaded...)
	}

	return New(patterns)
}

// Skip reports whether the entry at rel, relative to the walk root, is excluded.
// Its signature fits engine.SkipFunc.
func (f *Filter) Skip(rel string, isDir bool) bool {
	return f.excludes.Match(rel, isDir)
}

// Empty reports whether the filter has no patterns.
func (f *Filter) Empty() bool {
	return f.excludes.Len() == 0
}
