package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/engine"
)

// dryRun prints the jobs each path would run without touching any file.
func (r runner) dryRun(eng *engine.Engine, cfg *config.Config, paths []string, mode engine.Mode, start time.Time) error {
	var (
		totals stats
		errs   []error
	)

	totals.roots = len(paths)

	for _, path := range paths {
		jobs, err := eng.Plan(engine.Request{Path: path, Mode: mode})
		if err != nil && len(jobs) == 0 {
			errs = append(errs, err)

			continue
		}

		totals.found += len(jobs)

		for _, job := range jobs {
			if job.OutputPath == "" {
				totals.failed++

				if !cfg.Quiet {
					fmt.Fprintf(r.stdout, "Would skip %q: no %s suffix\n", job.InputPath, engine.Suffix)
				}

				continue
			}

			totals.processed++

			if cfg.Stats {
				if info, err := r.fs.Stat(job.InputPath); err == nil {
					totals.bytes += info.Size()
				}
			}

			if !cfg.Quiet {
				fmt.Fprintf(r.stdout, "Would %s %q -> %q\n", mode, job.InputPath, job.OutputPath)
			}
		}
	}

	if cfg.Stats {
		printStats(r.stderr, totals, time.Since(start))
	}

	return errors.Join(errs...)
}
