package logic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/filter"
	"github.com/idelchi/fcrypt/pkg/pathmatch"
)

// ErrUnusedPattern is returned when an exclude pattern matches nothing.
var ErrUnusedPattern = errors.New("pattern(s) matched no entries")

// entry is a walk entry relative to its root.
type entry struct {
	rel   string
	isDir bool
}

// RunCheck validates that every exclude pattern matches at least one entry
// below the given paths.
func RunCheck(_ context.Context, cfg *config.Config) error {
	r := runner{fs: afero.NewOsFs(), stdout: os.Stdout, stderr: os.Stderr}

	return r.check(cfg)
}

func (r runner) check(cfg *config.Config) error {
	patterns := append([]string{}, cfg.Exclude...)

	if cfg.ExcludeFrom != "" {
		loaded, err := filter.LoadPatterns(r.fs, cfg.ExcludeFrom)
		if err != nil {
			return fmt.Errorf("loading exclude patterns: %w", err)
		}

		patterns = append(patterns, loaded...)
	}

	if len(patterns) == 0 {
		return errors.New("no exclude patterns to check")
	}

	candidates, err := r.collect(cfg.Paths)
	if err != nil {
		return err
	}

	failures := 0

	for _, raw := range patterns {
		pattern, err := pathmatch.Compile(raw)
		if err != nil {
			fmt.Fprintf(r.stderr, "exclude: %s: invalid pattern: %v\n", raw, err)

			failures++

			continue
		}

		count := 0

		for _, e := range candidates {
			if pattern.Match(e.rel, e.isDir) {
				count++
			}
		}

		switch {
		case count == 0:
			fmt.Fprintf(r.stderr, "exclude: %s: 0 entries (ERROR)\n", raw)

			failures++
		case !cfg.Quiet:
			fmt.Fprintf(r.stderr, "exclude: %s: %d entries\n", raw, count)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d %w", failures, ErrUnusedPattern)
	}

	return nil
}

// collect lists every entry below the directory paths, relative to the path
// it was found under. File paths contribute nothing since they are never
// filtered.
func (r runner) collect(paths []string) ([]entry, error) {
	var entries []entry

	for _, root := range paths {
		root = filepath.Clean(root)

		info, err := r.fs.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", root, err)
		}

		if !info.IsDir() {
			continue
		}

		err = afero.Walk(r.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if path == root {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err //nolint:wrapcheck
			}

			entries = append(entries, entry{rel: filepath.ToSlash(rel), isDir: info.IsDir()})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", root, err)
		}
	}

	return entries, nil
}
