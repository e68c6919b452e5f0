package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/calgrid/pkg/buildinfo"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type layoutRequest struct {
	Events        []layout.RawEvent `json:"events"`
	StartHour     int               `json:"start_hour"`
	PixelsPerHour float64           `json:"pixels_per_hour"`
	Timezone      string            `json:"timezone,omitempty"`
}

type layoutResponse struct {
	Placements []layout.Placement `json:"placements"`
	Skipped    int                `json:"skipped"`
}

// handleLayout runs the layout engine on one column of events. No day
// splitting, calendars or caching are involved.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.PixelsPerHour == 0 {
		req.PixelsPerHour = pipeline.DefaultPixelsPerHour
	}
	if err := errors.ValidateHours(req.StartHour, 24); err != nil {
		writeError(w, r, err)
		return
	}
	if err := errors.ValidatePixelsPerHour(req.PixelsPerHour); err != nil {
		writeError(w, r, err)
		return
	}
	loc, err := errors.ValidateTimezone(req.Timezone)
	if err != nil {
		writeError(w, r, err)
		return
	}

	events := make([]layout.Event, len(req.Events))
	for i, raw := range req.Events {
		events[i] = inLocation(raw.Event(loc), loc)
	}
	placements := layout.Compute(events, req.StartHour, req.PixelsPerHour)
	writeJSON(w, http.StatusOK, layoutResponse{
		Placements: placements,
		Skipped:    len(events) - len(placements),
	})
}

// inLocation expresses e in loc, so events sent with different offsets
// share one minute-of-day frame.
func inLocation(e layout.Event, loc *time.Location) layout.Event {
	if !e.Start.IsZero() {
		e.Start = e.Start.In(loc)
	}
	if e.End != nil {
		end := e.End.In(loc)
		e.End = &end
	}
	return e
}

// handleRender renders the calendar described by the request body. Only
// feed URLs are accepted as sources; local data must be sent inline.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		writeError(w, r, err)
		return
	}
	for _, src := range opts.Sources {
		if !errors.IsURL(src) {
			writeError(w, r, errors.New(errors.ErrCodeInvalidSource, "only feed URLs are accepted as sources, got %q", src))
			return
		}
	}
	opts = s.withDefaults(opts)

	format := r.URL.Query().Get("format")
	if format == "" && len(opts.Formats) > 0 {
		format = opts.Formats[0]
	}
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	s.execute(w, r, opts, format)
}

// handleCalendar renders the configured sources for a view and date.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	opts := s.baseOptions()
	opts.View = chi.URLParam(r, "view")
	opts.Date = chi.URLParam(r, "date")
	format := chi.URLParam(r, "format")
	opts.Formats = []string{format}

	q := r.URL.Query()
	if tz := q.Get("tz"); tz != "" {
		opts.Timezone = tz
	}
	if style := q.Get("style"); style != "" {
		opts.Style = style
	}
	opts.HiddenCalendars = append(opts.HiddenCalendars, q["hide"]...)
	s.execute(w, r, opts, format)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// baseOptions returns a copy of the configured options.
func (s *Server) baseOptions() pipeline.Options {
	opts := s.base.Clone()
	opts.Formats = nil
	return opts
}

// withDefaults fills unset request fields from the configured options.
func (s *Server) withDefaults(opts pipeline.Options) pipeline.Options {
	base := s.baseOptions()
	if opts.Timezone == "" {
		opts.Timezone = base.Timezone
	}
	if opts.WeekStart == "" {
		opts.WeekStart = base.WeekStart
	}
	if opts.EndHour == 0 && opts.StartHour == 0 {
		opts.StartHour, opts.EndHour = base.StartHour, base.EndHour
	}
	if opts.PixelsPerHour == 0 {
		opts.PixelsPerHour = base.PixelsPerHour
	}
	if opts.Style == "" {
		opts.Style = base.Style
	}
	if opts.ColumnWidth == 0 {
		opts.ColumnWidth = base.ColumnWidth
	}
	if opts.Now == nil {
		opts.Now = base.Now
	}
	return opts
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}
