package report

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/idelchi/fcrypt/internal/engine"
)

// BarSink renders a single progress bar across every run that reports to it.
// Totals from concurrent runs add up.
type BarSink struct {
	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarSink returns a BarSink drawing to out.
func NewBarSink(out io.Writer) *BarSink {
	return &BarSink{out: out}
}

// Emit advances the bar.
func (s *BarSink) Emit(event engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Kind {
	case engine.Started:
		if event.Total <= 0 {
			return
		}

		if s.bar == nil {
			s.bar = s.newBar(event.Total, event.Mode)

			return
		}

		s.bar.ChangeMax(s.bar.GetMax() + event.Total)

	case engine.FileDone:
		if s.bar == nil {
			return
		}

		s.bar.Describe(event.Mode.String() + " " + filepath.Base(event.Path))
		s.bar.Add(1) //nolint:errcheck // rendering errors are not actionable

	default:
	}
}

// Close completes the bar.
func (s *BarSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		return nil
	}

	return s.bar.Finish() //nolint:wrapcheck
}

func (s *BarSink) newBar(total int, mode engine.Mode) *progressbar.ProgressBar {
	const throttle = 65 * time.Millisecond

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription(mode.String()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(throttle),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}
