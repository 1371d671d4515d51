package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SkipFunc reports whether the entry at rel (slash separated, relative to the
// walk root) should be left out. Skipped directories are not descended.
type SkipFunc func(rel string, isDir bool) bool

// Walker drives a Transformer over every leaf file below a directory.
type Walker struct {
	fs          afero.Fs
	transformer *Transformer
	skip        SkipFunc
}

// NewWalker returns a Walker over fsys. skip may be nil.
func NewWalker(fsys afero.Fs, transformer *Transformer, skip SkipFunc) *Walker {
	return &Walker{fs: fsys, transformer: transformer, skip: skip}
}

// Count returns the number of leaf files below root.
func (w *Walker) Count(root string) int {
	total := 0

	w.visit(root, root, nil, func(string) bool {
		total++

		return true
	})

	return total
}

// Plan lists the jobs a walk over root would run, in processing order.
// Jobs whose output cannot be derived carry an empty OutputPath.
func (w *Walker) Plan(root string, mode Mode) []FileJob {
	var jobs []FileJob

	w.visit(root, root, nil, func(path string) bool {
		job, _ := NewFileJob(path, mode) //nolint:errcheck // an empty output marks the job as invalid

		jobs = append(jobs, job)

		return true
	})

	return jobs
}

// Walk counts the leaf files below root, then transforms each of them in the
// same order. Started, FileDone, Message and the terminal event go to sink.
//
// A failing file is recorded in the summary and the walk goes on. The context
// is checked before every file; once it is done, no further file is started
// and the summary is marked cancelled.
func (w *Walker) Walk(ctx context.Context, root string, mode Mode, password string, sink Sink) (Summary, error) {
	summary := newSummary(root, mode)

	info, err := w.fs.Stat(root)
	if err != nil {
		err = classifyStat(root, err)
		sink.Emit(Event{Kind: Failed, RunID: summary.RunID, Root: root, Mode: mode, Err: err})

		return summary, err
	}

	if !info.IsDir() {
		err = fmt.Errorf("%w: %q is not a directory", ErrIO, root)
		sink.Emit(Event{Kind: Failed, RunID: summary.RunID, Root: root, Mode: mode, Err: err})

		return summary, err
	}

	summary.Total = w.Count(root)

	sink.Emit(Event{Kind: Started, RunID: summary.RunID, Root: root, Mode: mode, Total: summary.Total})

	unreadable := func(dir string, err error) {
		sink.Emit(Event{
			Kind:  Message,
			RunID: summary.RunID,
			Root:  root,
			Mode:  mode,
			Path:  dir,
			Text:  "unreadable directory treated as empty",
			Err:   err,
		})
	}

	w.visit(root, root, unreadable, func(path string) bool {
		if ctx.Err() != nil {
			summary.Cancelled = true

			return false
		}

		outcome, err := w.transformer.Transform(path, mode, password)
		summary.record(path, outcome, err)

		sink.Emit(Event{
			Kind:    FileDone,
			RunID:   summary.RunID,
			Root:    root,
			Mode:    mode,
			Path:    path,
			Index:   summary.Processed,
			Total:   summary.Total,
			Outcome: outcome,
			Err:     err,
		})

		return true
	})

	summary.finish()

	sink.Emit(Event{Kind: Finished, RunID: summary.RunID, Root: root, Mode: mode, Total: summary.Total, Summary: &summary})

	return summary, nil
}

// visit calls fn for every leaf below dir, depth first with entries in name
// order. Symbolic links are resolved, so a link to a directory is descended
// like the directory itself; links forming a cycle are not detected. A dangling
// link is a leaf. It returns false once fn does.
func (w *Walker) visit(root, dir string, unreadable func(string, error), fn func(string) bool) bool {
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		if unreadable != nil {
			unreadable(dir, err)
		}

		return true
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir := w.isDir(path, entry)

		if w.skipped(root, path, isDir) {
			continue
		}

		if isDir {
			if !w.visit(root, path, unreadable, fn) {
				return false
			}

			continue
		}

		if !fn(path) {
			return false
		}
	}

	return true
}

// isDir reports whether entry is a directory, following a symbolic link.
func (w *Walker) isDir(path string, entry os.FileInfo) bool {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}

	target, err := w.fs.Stat(path)
	if err != nil {
		return false
	}

	return target.IsDir()
}

func (w *Walker) skipped(root, path string, isDir bool) bool {
	if w.skip == nil {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return w.skip(filepath.ToSlash(rel), isDir)
}
