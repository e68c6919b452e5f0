package calendar

import "github.com/matzehuels/calgrid/pkg/layout"

// Calendar groups events under a name and default colour. Hidden calendars
// are left out of the grid.
type Calendar struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty" toml:"color"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden"`
}

var typeColors = map[layout.EventType]string{
	layout.EventTypeTask:        "#4C8BF5",
	layout.EventTypeReminder:    "#F5A623",
	layout.EventTypeArrangement: "#7ED321",
	layout.EventTypeHoliday:     "#D0021B",
}

// DefaultColor is used for events that have no colour from any source.
const DefaultColor = "#9B9B9B"

// TypeColor returns the default colour of an event type.
func TypeColor(t layout.EventType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultColor
}

// Index maps calendar IDs to calendars.
type Index map[string]Calendar

// NewIndex indexes calendars by ID. Later entries win.
func NewIndex(calendars []Calendar) Index {
	idx := make(Index, len(calendars))
	for _, c := range calendars {
		idx[c.ID] = c
	}
	return idx
}

// Visible reports whether events of the calendar with the given ID are
// shown. Unknown calendars are visible.
func (idx Index) Visible(id string) bool {
	c, ok := idx[id]
	return !ok || !c.Hidden
}

// ColorFor resolves the display colour of e: its own colour, then its
// calendar's, then its type's.
func (idx Index) ColorFor(e layout.Event) string {
	if e.Color != "" {
		return e.Color
	}
	if c, ok := idx[e.CalendarID]; ok && c.Color != "" {
		return c.Color
	}
	return TypeColor(e.Type)
}

// Filter returns the events of visible calendars with colours resolved.
func (idx Index) Filter(events []layout.Event) []layout.Event {
	out := make([]layout.Event, 0, len(events))
	for _, e := range events {
		if !idx.Visible(e.CalendarID) {
			continue
		}
		e.Color = idx.ColorFor(e)
		out = append(out, e)
	}
	return out
}
