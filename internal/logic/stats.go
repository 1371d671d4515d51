package logic

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/fcrypt/internal/engine"
)

type result struct {
	path    string
	summary engine.Summary
	err     error
}

type stats struct {
	roots     int
	found     int
	processed int
	succeeded int
	failed    int
	warnings  int
	bytes     int64
	cancelled bool
}

func tally(results []result) stats {
	totals := stats{roots: len(results)}

	for _, res := range results {
		s := res.summary

		totals.found += s.Total
		totals.processed += s.Processed
		totals.succeeded += s.Succeeded
		totals.warnings += len(s.Warnings)
		totals.bytes += s.Bytes
		totals.cancelled = totals.cancelled || s.Cancelled
		totals.failed += len(s.Failures)
	}

	return totals
}

func printStats(w io.Writer, totals stats, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Paths:     %d\n", totals.roots)
	fmt.Fprintf(w, "  Found:     %d\n", totals.found)
	fmt.Fprintf(w, "  Processed: %d\n", totals.processed)
	fmt.Fprintf(w, "  Errors:    %d\n", totals.failed)
	fmt.Fprintf(w, "  Warnings:  %d\n", totals.warnings)
	//nolint:gosec // bytes is a sum of file sizes
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totals.bytes))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
