// Package pipeline provides the load → layout → render pipeline of calgrid.
//
// The CLI, the HTTP server and the watch loop all go through a [Runner], so
// defaults, validation and caching behave the same for every entry point.
//
// # Stages
//
//  1. Load: open every source, read the view's range and merge the events
//  2. Layout: split the events into days and place them with [layout.Compute]
//  3. Render: produce SVG, PNG, PDF, JSON or DOT output of the grid
//
// Layouts are cached under a hash of the merged events and artifacts under
// a hash of the grid, so an unchanged calendar renders from cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sources: []string{"team.ics"},
//	    View:    "week",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/render/grid/sink"
	"github.com/matzehuels/calgrid/pkg/render/grid/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watch
// =============================================================================

const (
	DefaultView          = string(calendar.ViewDay)
	DefaultStartHour     = 0
	DefaultEndHour       = 24
	DefaultPixelsPerHour = 60.0
	DefaultStyle         = "simple"
	DefaultWeekStart     = "monday"
	DefaultColumnWidth   = sink.DefaultColumnWidth
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Sources []string          `json:"sources,omitempty"`
	Events  []layout.RawEvent `json:"events,omitempty"` // Inline events, loaded after sources
	Refresh bool              `json:"refresh,omitempty"`

	// Layout options
	View            string              `json:"view,omitempty"`
	Date            string              `json:"date,omitempty"` // YYYY-MM-DD, default today
	Timezone        string              `json:"timezone,omitempty"`
	WeekStart       string              `json:"week_start,omitempty"`
	StartHour       int                 `json:"start_hour,omitempty"`
	EndHour         int                 `json:"end_hour,omitempty"`
	PixelsPerHour   float64             `json:"pixels_per_hour,omitempty"`
	Calendars       []calendar.Calendar `json:"calendars,omitempty"`
	HiddenCalendars []string            `json:"hidden_calendars,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	ColumnWidth float64  `json:"column_width,omitempty"`
	Title       string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Now    calendar.Clock `json:"-"`

	location  *time.Location
	day       time.Time
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Events are the merged, deduplicated events of the view's range.
	Events []layout.Event

	// EventsHash is the content hash of Events.
	EventsHash string

	// Grid is the laid-out view.
	Grid calendar.Grid

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SourceCount    int
	EventCount     int
	PlacementCount int
	MaxColumns     int
	LoadTime       time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the grid came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !slices.Contains(styles.Names(), style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// ValidateView checks that a view name is valid.
func ValidateView(view string) error {
	if _, err := calendar.ParseViewKind(view); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidView, err, "invalid view: %q", view)
	}
	return nil
}

// ParseWeekday parses a weekday name such as "monday".
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(name)]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid week start: %q", name)
	}
	return d, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Sources) == 0 && len(o.Events) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one source or inline event is required")
	}
	for _, s := range o.Sources {
		if err := errors.ValidateSource(s); err != nil {
			return err
		}
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if o.WeekStart == "" {
		o.WeekStart = DefaultWeekStart
	}
	if o.EndHour == 0 {
		o.EndHour = DefaultEndHour
	}
	if o.PixelsPerHour == 0 {
		o.PixelsPerHour = DefaultPixelsPerHour
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation. It
// resolves the timezone and the anchor date.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if _, err := ParseWeekday(o.WeekStart); err != nil {
		return err
	}
	if err := errors.ValidateHours(o.StartHour, o.EndHour); err != nil {
		return err
	}
	if err := errors.ValidatePixelsPerHour(o.PixelsPerHour); err != nil {
		return err
	}
	loc, err := errors.ValidateTimezone(o.Timezone)
	if err != nil {
		return err
	}
	if err := errors.ValidateDate(o.Date); err != nil {
		return err
	}
	for _, c := range o.Calendars {
		if err := errors.ValidateColor(c.Color); err != nil {
			return err
		}
	}

	o.location = loc
	if o.Date == "" {
		o.day = calendar.Today(o.Now, loc)
	} else {
		o.day, _ = calendar.ParseDate(o.Date, loc)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.ColumnWidth == 0 {
		o.ColumnWidth = DefaultColumnWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.ColumnWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "column width must be positive, got %v", o.ColumnWidth)
	}
	return nil
}

// Clone returns a deep copy of o that has to be validated again.
func (o Options) Clone() Options {
	o.Sources = slices.Clone(o.Sources)
	o.Events = slices.Clone(o.Events)
	o.Calendars = slices.Clone(o.Calendars)
	o.HiddenCalendars = slices.Clone(o.HiddenCalendars)
	o.Formats = slices.Clone(o.Formats)
	o.validated = false
	return o
}

// Location returns the resolved timezone. It is UTC before validation.
func (o *Options) Location() *time.Location {
	if o.location == nil {
		return time.UTC
	}
	return o.location
}

// CalendarView returns the view described by the options. Call
// [Options.ValidateForLayout] first.
func (o *Options) CalendarView() calendar.View {
	kind, _ := calendar.ParseViewKind(o.View)
	start, _ := ParseWeekday(o.WeekStart)
	day := o.day
	if day.IsZero() {
		day = calendar.Today(o.Now, o.Location())
	}
	return calendar.View{Kind: kind, Date: day, Location: o.Location(), WeekStart: start}
}

// GridOptions returns the layout settings for [calendar.BuildGrid] merged
// with the given source calendars. Hidden IDs win over everything else.
func (o *Options) GridOptions(sourceCalendars []calendar.Calendar) calendar.GridOptions {
	cals := make([]calendar.Calendar, 0, len(sourceCalendars)+len(o.Calendars)+len(o.HiddenCalendars))
	cals = append(cals, sourceCalendars...)
	cals = append(cals, o.Calendars...)
	idx := calendar.NewIndex(cals)
	for _, id := range o.HiddenCalendars {
		c := idx[id]
		c.ID = id
		c.Hidden = true
		cals = append(cals, c)
	}
	return calendar.GridOptions{
		StartHour:     o.StartHour,
		EndHour:       o.EndHour,
		PixelsPerHour: o.PixelsPerHour,
		Calendars:     cals,
	}
}

// LayoutKeyOpts returns cache key options for layout computation with
// the calendars resolved by [Options.GridOptions].
func (o *Options) LayoutKeyOpts(gridOpts calendar.GridOptions) cache.LayoutKeyOpts {
	v := o.CalendarView()
	cals := make([]string, len(gridOpts.Calendars))
	for i, c := range gridOpts.Calendars {
		cals[i] = fmt.Sprintf("%s|%s|%t", c.ID, c.Color, c.Hidden)
	}
	return cache.LayoutKeyOpts{
		View:          o.View,
		Date:          v.Date.Format(calendar.DateLayout),
		Timezone:      o.Location().String(),
		WeekStart:     int(v.WeekStart),
		StartHour:     gridOpts.StartHour,
		EndHour:       gridOpts.EndHour,
		PixelsPerHour: gridOpts.PixelsPerHour,
		Calendars:     cals,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		ColumnWidth: o.ColumnWidth,
		Title:       o.Title,
	}
}
