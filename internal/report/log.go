package report

import (
	"go.uber.org/zap"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/fcrypt/internal/engine"
)

// LogSink writes events as structured log entries.
type LogSink struct {
	logger *zap.Logger
	quiet  bool
}

// NewLogSink returns a LogSink writing to logger. When quiet is set, per-file
// successes drop to debug level.
func NewLogSink(logger *zap.Logger, quiet bool) *LogSink {
	return &LogSink{logger: logger, quiet: quiet}
}

// Emit logs event.
func (s *LogSink) Emit(event engine.Event) {
	logger := s.logger.With(
		zap.String("run", event.RunID),
		zap.Stringer("mode", event.Mode),
	)

	switch event.Kind {
	case engine.Started:
		logger.Debug("started", zap.String("root", event.Root), zap.Int("files", event.Total))

	case engine.FileDone:
		s.fileDone(logger, event)

	case engine.Message:
		logger.Warn(event.Text, zap.String("path", event.Path), zap.Error(event.Err))

	case engine.Finished:
		s.finished(logger, event.Summary)

	case engine.Failed:
		logger.Error("failed", zap.String("root", event.Root), zap.Error(event.Err))
	}
}

func (s *LogSink) fileDone(logger *zap.Logger, event engine.Event) {
	if event.Err != nil {
		logger.Error("file failed",
			zap.String("path", event.Path),
			zap.Int("index", event.Index),
			zap.Int("total", event.Total),
			zap.Error(event.Err),
		)

		return
	}

	outcome := event.Outcome

	if outcome.Warning != nil {
		logger.Warn("source not removed", zap.String("path", outcome.Input), zap.Error(outcome.Warning))
	}

	level := zap.InfoLevel
	if s.quiet {
		level = zap.DebugLevel
	}

	logger.Log(level, "processed",
		zap.String("input", outcome.Input),
		zap.String("output", outcome.Output),
		zap.String("size", humanize.IBytes(uint64(max(0, outcome.Size)))), //nolint:gosec // clamped
		zap.Int("index", event.Index),
		zap.Int("total", event.Total),
	)
}

func (s *LogSink) finished(logger *zap.Logger, summary *engine.Summary) {
	if summary == nil {
		return
	}

	fields := []zap.Field{
		zap.String("root", summary.Root),
		zap.String("status", string(summary.Status())),
		zap.Int("processed", summary.Processed),
		zap.Int("total", summary.Total),
		zap.Int("failed", len(summary.Failures)),
		zap.Int("warnings", len(summary.Warnings)),
		zap.Duration("duration", summary.Duration),
	}

	switch {
	case summary.Status() != engine.StatusCompleted:
		logger.Warn("finished", fields...)
	case s.quiet:
		logger.Debug("finished", fields...)
	default:
		logger.Info("finished", fields...)
	}
}
