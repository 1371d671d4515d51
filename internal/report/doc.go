// Package report turns engine events into log entries, a terminal progress bar
// and Prometheus metrics.
package report
