package ics

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/httputil"
	"github.com/matzehuels/calgrid/pkg/layout"
)

// Config configures a [Source]. Zero values are usable: no cache, a
// default fetcher, UTC and a discarding logger.
type Config struct {
	Location *time.Location
	Cache    cache.Cache
	Keyer    cache.Keyer
	Fetcher  *httputil.Fetcher
	// Refresh bypasses cached feed bodies.
	Refresh bool
	// CalendarID is stamped on every event. It defaults to the file name
	// or URL host.
	CalendarID string
	Logger     *log.Logger
}

// Source reads one .ics file or feed URL.
type Source struct {
	location string
	cfg      Config
	feed     *Feed
}

// New creates a source for a file path or an http(s)/webcal URL.
func New(location string, cfg Config) *Source {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = httputil.NewFetcher()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = defaultCalendarID(location)
	}
	return &Source{location: location, cfg: cfg}
}

func defaultCalendarID(location string) string {
	if u, err := url.Parse(location); err == nil && u.Host != "" {
		return u.Host
	}
	return strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
}

// Name returns the file path or URL.
func (s *Source) Name() string { return s.location }

// Load reads the calendar and expands it into r.
func (s *Source) Load(ctx context.Context, r calendar.Range) ([]layout.Event, error) {
	body, err := s.body(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := Parse(body, s.cfg.Location)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", s.location)
	}
	s.feed = feed

	exp := Expand(feed.Events, r, s.cfg.Location)
	for _, uid := range exp.Truncated {
		s.cfg.Logger.Warn("recurrence truncated", "source", s.location, "uid", uid, "cap", MaxOccurrences)
	}
	if exp.Skipped > 0 {
		s.cfg.Logger.Warn("unparseable recurrence rules skipped", "source", s.location, "count", exp.Skipped)
	}
	for i := range exp.Events {
		exp.Events[i].CalendarID = s.cfg.CalendarID
	}
	s.cfg.Logger.Debug("ics loaded", "source", s.location, "vevents", len(feed.Events), "events", len(exp.Events))
	return exp.Events, nil
}

// Calendars describes the calendar of the last loaded feed.
func (s *Source) Calendars() []calendar.Calendar {
	if s.feed == nil {
		return nil
	}
	return []calendar.Calendar{{ID: s.cfg.CalendarID, Name: s.feed.Name, Color: s.feed.Color}}
}

func (s *Source) body(ctx context.Context) ([]byte, error) {
	if !errors.IsURL(s.location) {
		data, err := os.ReadFile(s.location)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", s.location)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.location, err)
		}
		return data, nil
	}

	key := s.cfg.Keyer.FeedKey(s.location)
	if !s.cfg.Refresh {
		data, ok, err := s.cfg.Cache.Get(ctx, key)
		if err != nil {
			s.cfg.Logger.Warn("feed cache read failed", "source", s.location, "err", err)
		}
		if ok {
			s.cfg.Logger.Debug("feed cache hit", "source", s.location)
			return data, nil
		}
	}

	data, err := s.cfg.Fetcher.FetchWithRetry(ctx, s.location)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Cache.Set(ctx, key, data, cache.TTLFeed); err != nil {
		s.cfg.Logger.Warn("feed cache write failed", "source", s.location, "err", err)
	}
	return data, nil
}
