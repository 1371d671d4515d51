// Package logic wires the configuration to the engine and its reporters.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/engine"
	"github.com/idelchi/fcrypt/internal/filter"
	"github.com/idelchi/fcrypt/internal/logging"
	"github.com/idelchi/fcrypt/internal/report"
)

var (
	// ErrOverlappingPaths is returned when one path lies inside another.
	ErrOverlappingPaths = errors.New("overlapping paths")
	// ErrFilesFailed is returned when a walk finished with per-file errors.
	ErrFilesFailed = errors.New("some files failed")
)

// runner carries the process environment so tests can replace it.
type runner struct {
	fs       afero.Fs
	stdout   io.Writer
	stderr   io.Writer
	logger   *zap.Logger
	terminal bool
}

// Run is the main logic of the application.
func Run(ctx context.Context, cfg *config.Config, password string) error {
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	defer logging.Sync() //nolint:errcheck // stderr sync fails on some terminals

	r := runner{
		fs:       afero.NewOsFs(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   logging.L(),
		terminal: term.IsTerminal(int(os.Stderr.Fd())), //nolint:gosec // fd fits in int
	}

	return r.run(ctx, cfg, password)
}

func (r runner) run(ctx context.Context, cfg *config.Config, password string) error {
	start := time.Now()

	paths, err := distinct(cfg.Paths)
	if err != nil {
		return err
	}

	eng, err := r.engine(cfg)
	if err != nil {
		return err
	}

	mode := engine.Encrypt
	if cfg.Decrypt {
		mode = engine.Decrypt
	}

	if cfg.Dry {
		return r.dryRun(eng, cfg, paths, mode, start)
	}

	sinks, bar, metrics := r.sinks(cfg)

	results := make([]result, len(paths))

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	for i, path := range paths {
		i, path := i, path

		group.Go(func() error {
			summary, err := eng.Run(ctx, engine.Request{Path: path, Password: password, Mode: mode}, sinks)
			results[i] = result{path: path, summary: summary, err: err}

			return nil
		})
	}

	group.Wait() //nolint:errcheck // workers report through results

	if bar != nil {
		bar.Close() //nolint:errcheck // cosmetic
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			r.logger.Error("writing metrics", zap.Error(err))
		}
	}

	totals := tally(results)

	if cfg.Stats {
		printStats(r.stderr, totals, time.Since(start))
	}

	return outcome(ctx, results, totals)
}

func (r runner) engine(cfg *config.Config) (*engine.Engine, error) {
	flt, err := filter.Load(r.fs, cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	opts := engine.Options{Fs: r.fs, PreserveTimestamps: cfg.PreserveTimestamps}
	if !flt.Empty() {
		opts.Skip = flt.Skip
	}

	return engine.New(opts), nil
}

func (r runner) sinks(cfg *config.Config) (engine.MultiSink, *report.BarSink, *report.MetricsSink) {
	var (
		sinks   engine.MultiSink
		bar     *report.BarSink
		metrics *report.MetricsSink
	)

	if cfg.Progress && !cfg.Quiet && r.terminal {
		bar = report.NewBarSink(r.stderr)
		sinks = append(sinks, bar)
	}

	sinks = append(sinks, report.NewLogSink(r.logger, cfg.Quiet || bar != nil))

	if cfg.MetricsFile != "" {
		metrics = report.NewMetricsSink()
		sinks = append(sinks, metrics)
	}

	return sinks, bar, metrics
}

// distinct cleans paths, drops duplicates and rejects paths nested in one
// another, since concurrent walks over the same files would race.
func distinct(paths []string) ([]string, error) {
	var (
		cleaned []string
		abs     []string
	)

	for _, path := range paths {
		path = filepath.Clean(path)

		full, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", path, err)
		}

		duplicate := false

		for i, other := range abs {
			if full == other {
				duplicate = true

				break
			}

			if within(full, other) || within(other, full) {
				return nil, fmt.Errorf("%w: %q and %q", ErrOverlappingPaths, cleaned[i], path)
			}
		}

		if !duplicate {
			cleaned = append(cleaned, path)
			abs = append(abs, full)
		}
	}

	return cleaned, nil
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// outcome folds the results into the command's error.
func outcome(ctx context.Context, results []result, totals stats) error {
	var errs []error

	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}

	if totals.failed > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d", ErrFilesFailed, totals.failed, totals.processed))
	}

	if totals.cancelled {
		errs = append(errs, fmt.Errorf("stopped early: %w", context.Cause(ctx)))
	}

	return errors.Join(errs...)
}
