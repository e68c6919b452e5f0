// Package source opens the event sources named on the command line or in
// the configuration.
//
// A source spec is one of:
//
//	team.ics, https://…, webcal://…   iCalendar file or feed
//	events.json                        JSON event file
//	events.yaml, events.yml            YAML event file
//	sqlite://events.db, events.db      SQLite database
//
// Every source implements [Source]. Sources that know calendar metadata
// (names, colours, hidden flags) also implement [CalendarLister].
package source

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/httputil"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/source/ics"
	"github.com/matzehuels/calgrid/pkg/source/sqlite"
)

// Source yields the events of a time range.
type Source interface {
	Name() string
	Load(ctx context.Context, r calendar.Range) ([]layout.Event, error)
}

// CalendarLister is implemented by sources that carry calendar metadata.
// It is valid after Load.
type CalendarLister interface {
	Calendars() []calendar.Calendar
}

// Options are shared by all sources.
type Options struct {
	Location *time.Location
	Cache    cache.Cache
	Keyer    cache.Keyer
	Fetcher  *httputil.Fetcher
	Refresh  bool
	Logger   *log.Logger
}

// Kind names a source type.
type Kind string

const (
	KindICS    Kind = "ics"
	KindJSON   Kind = "json"
	KindYAML   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// Detect returns the kind of a source spec.
func Detect(spec string) (Kind, error) {
	if strings.HasPrefix(spec, "sqlite://") {
		return KindSQLite, nil
	}
	if errors.IsURL(spec) {
		return KindICS, nil
	}
	switch strings.ToLower(filepath.Ext(spec)) {
	case ".ics", ".ical", ".ifb":
		return KindICS, nil
	case ".json":
		return KindJSON, nil
	case ".yaml", ".yml":
		return KindYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSource, "cannot tell the type of source %q (use .ics, .json, .yaml, .db or a URL)", spec)
}

// Open validates spec and returns the matching source. SQLite sources
// hold a database handle; close them with [Close].
func Open(spec string, opts Options) (Source, error) {
	if err := errors.ValidateSource(spec); err != nil {
		return nil, err
	}
	kind, err := Detect(spec)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	switch kind {
	case KindICS:
		return ics.New(spec, ics.Config{
			Location: opts.Location,
			Cache:    opts.Cache,
			Keyer:    opts.Keyer,
			Fetcher:  opts.Fetcher,
			Refresh:  opts.Refresh,
			Logger:   opts.Logger,
		}), nil
	case KindSQLite:
		s, err := sqlite.Open(strings.TrimPrefix(spec, "sqlite://"), opts.Location)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", spec)
		}
		return s, nil
	default:
		return NewFile(spec, kind == KindYAML, opts.Location), nil
	}
}

// Close releases resources held by src, if any.
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
