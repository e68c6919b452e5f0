// Package cli implements the calgrid command-line interface.
//
// Commands read their defaults from the config file (see package config)
// and override them with flags. Every command that touches events goes
// through a pipeline.Runner, so the CLI, the HTTP server and the watch
// loop share caching and validation.
//
// # Commands
//
//   - layout: print the laid-out grid as JSON
//   - render: write SVG, PNG, PDF, JSON or DOT files
//   - agenda: print the events of a view as a table
//   - browse: step through days interactively
//   - serve: run the HTTP API
//   - watch: refresh, render and publish on a cron schedule
//   - cache, config, version, completion: housekeeping
//
// Logs go to stderr; --verbose (-v) enables debug output. Command results
// go to stdout.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with short wall-clock timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logElapsed logs msg at info level with the time since start attached.
func logElapsed(l *log.Logger, start time.Time, msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(start).Round(time.Millisecond))
	l.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
