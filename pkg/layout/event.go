package layout

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultDuration is the length assumed for an event that has no end.
const DefaultDuration = 30 * time.Minute

// EventType classifies an event for presentation. Layout ignores it.
type EventType string

const (
	EventTypeTask        EventType = "task"
	EventTypeReminder    EventType = "reminder"
	EventTypeArrangement EventType = "arrangement"
	EventTypeHoliday     EventType = "holiday"
)

// Event is a single time-stamped entry of a calendar.
//
// A zero Start marks the event as unusable; such events are skipped by
// [Compute]. A nil End means the event lasts [DefaultDuration].
type Event struct {
	ID         string
	Title      string
	Color      string
	Type       EventType
	CalendarID string
	AllDay     bool
	Start      time.Time
	End        *time.Time
}

// Valid reports whether the event has a start and can be laid out.
func (e Event) Valid() bool { return !e.Start.IsZero() }

// EffectiveEnd returns End, or Start plus [DefaultDuration] when End is nil.
func (e Event) EffectiveEnd() time.Time {
	if e.End != nil {
		return *e.End
	}
	return e.Start.Add(DefaultDuration)
}

// Duration returns EffectiveEnd minus Start. It is negative for events
// that end before they start.
func (e Event) Duration() time.Duration { return e.EffectiveEnd().Sub(e.Start) }

// timeLayouts are tried in order by [ParseTime].
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses a timestamp as found in event lists. Values carrying a
// zone offset keep it; floating values are read in loc (UTC when nil).
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range timeLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RawEvent is the wire shape of an [Event]. Timestamps are kept as text so
// that a malformed start can be dropped instead of failing the whole batch.
type RawEvent struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	Color      string    `json:"color,omitempty" yaml:"color,omitempty"`
	Type       EventType `json:"type,omitempty" yaml:"type,omitempty"`
	CalendarID string    `json:"calendar_id,omitempty" yaml:"calendar_id,omitempty"`
	AllDay     bool      `json:"all_day,omitempty" yaml:"all_day,omitempty"`
	Start      string    `json:"start,omitempty" yaml:"start,omitempty"`
	End        string    `json:"end,omitempty" yaml:"end,omitempty"`
}

// Event converts the raw record. An unparseable start yields a zero Start;
// an unparseable end is treated as absent.
func (r RawEvent) Event(loc *time.Location) Event {
	e := Event{
		ID:         r.ID,
		Title:      r.Title,
		Color:      r.Color,
		Type:       r.Type,
		CalendarID: r.CalendarID,
		AllDay:     r.AllDay,
	}
	if t, ok := ParseTime(r.Start, loc); ok {
		e.Start = t
	}
	if t, ok := ParseTime(r.End, loc); ok {
		e.End = &t
	}
	return e
}

// Raw returns the wire form of e.
func (e Event) Raw() RawEvent {
	r := RawEvent{
		ID:         e.ID,
		Title:      e.Title,
		Color:      e.Color,
		Type:       e.Type,
		CalendarID: e.CalendarID,
		AllDay:     e.AllDay,
	}
	if !e.Start.IsZero() {
		r.Start = e.Start.Format(time.RFC3339)
	}
	if e.End != nil {
		r.End = e.End.Format(time.RFC3339)
	}
	return r
}

// MarshalJSON encodes the event in its [RawEvent] form.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Raw())
}

// UnmarshalJSON decodes a [RawEvent]. Floating timestamps are read as UTC.
func (e *Event) UnmarshalJSON(data []byte) error {
	var r RawEvent
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*e = r.Event(time.UTC)
	return nil
}
