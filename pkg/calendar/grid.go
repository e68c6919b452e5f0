package calendar

import (
	"time"

	"github.com/matzehuels/calgrid/pkg/layout"
)

// Grid is the laid-out content of a view.
type Grid struct {
	View          ViewKind `json:"view"`
	Timezone      string   `json:"timezone"`
	StartHour     int      `json:"start_hour"`
	EndHour       int      `json:"end_hour"`
	PixelsPerHour float64  `json:"pixels_per_hour"`
	Days          []Day    `json:"days"`
}

// Day is one column of a grid.
type Day struct {
	Date       time.Time          `json:"date"`
	Placements []layout.Placement `json:"placements"`
	AllDay     []layout.Event     `json:"all_day,omitempty"`
}

// Height returns the pixel height of the visible hours.
func (g Grid) Height() float64 {
	return float64(g.EndHour-g.StartHour) * g.PixelsPerHour
}

// EventCount returns the number of placements and all-day entries.
func (g Grid) EventCount() int {
	n := 0
	for _, d := range g.Days {
		n += len(d.Placements) + len(d.AllDay)
	}
	return n
}

// MaxColumns returns the widest overlap group of the grid.
func (g Grid) MaxColumns() int {
	n := 0
	for _, d := range g.Days {
		for _, p := range d.Placements {
			n = max(n, p.TotalColumns)
		}
	}
	return n
}

// GridOptions configures [BuildGrid].
type GridOptions struct {
	StartHour     int
	EndHour       int
	PixelsPerHour float64
	Calendars     []Calendar
}

// BuildGrid splits events into the days of v, drops hidden calendars and
// lays out each day.
func BuildGrid(events []layout.Event, v View, opts GridOptions) Grid {
	visible := NewIndex(opts.Calendars).Filter(events)
	g := Grid{
		View:          v.Kind,
		Timezone:      v.location().String(),
		StartHour:     opts.StartHour,
		EndHour:       opts.EndHour,
		PixelsPerHour: opts.PixelsPerHour,
	}
	for _, d := range v.Days() {
		timed, allDay := ForDay(visible, d)
		g.Days = append(g.Days, Day{
			Date:       d,
			Placements: layout.Compute(timed, opts.StartHour, opts.PixelsPerHour),
			AllDay:     allDay,
		})
	}
	return g
}
