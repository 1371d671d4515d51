package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the overall result of an invocation.
type Status string

const (
	// StatusCompleted means every file was transformed.
	StatusCompleted Status = "completed"
	// StatusCompletedWithErrors means the walk finished but some files failed.
	StatusCompletedWithErrors Status = "completed with errors"
	// StatusCancelled means the walk stopped before dispatching every file.
	StatusCancelled Status = "cancelled"
)

// FileFailure pairs a path with the error or warning it produced.
type FileFailure struct {
	Path string
	Err  error
}

// Summary accounts for one invocation.
type Summary struct {
	RunID string
	Root  string
	Mode  Mode

	// Total is the number of leaf files found by the count pass.
	Total int
	// Processed counts files handed to the transformer, successful or not.
	Processed int
	Succeeded int
	// Bytes is the combined size of the written outputs.
	Bytes int64

	Failures []FileFailure
	// Warnings lists successful transforms whose source could not be removed.
	Warnings []FileFailure

	Cancelled bool
	Duration  time.Duration

	start time.Time
}

func newSummary(root string, mode Mode) Summary {
	return Summary{
		RunID: uuid.NewString(),
		Root:  root,
		Mode:  mode,
		start: time.Now(),
	}
}

func (s *Summary) record(path string, outcome Outcome, err error) {
	s.Processed++

	if err != nil {
		s.Failures = append(s.Failures, FileFailure{Path: path, Err: err})

		return
	}

	s.Succeeded++
	s.Bytes += outcome.Size

	if outcome.Warning != nil {
		s.Warnings = append(s.Warnings, FileFailure{Path: path, Err: outcome.Warning})
	}
}

func (s *Summary) finish() {
	s.Duration = time.Since(s.start)
}

// Status derives the overall result.
func (s Summary) Status() Status {
	switch {
	case s.Cancelled:
		return StatusCancelled
	case len(s.Failures) > 0:
		return StatusCompletedWithErrors
	default:
		return StatusCompleted
	}
}

// Err returns a non-nil error when any file failed.
func (s Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d file(s) failed, first: %w", len(s.Failures), s.Processed, s.Failures[0].Err)
}
