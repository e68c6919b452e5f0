package calendar

import (
	"fmt"
	"time"
)

// ViewKind selects how many days a view spans.
type ViewKind string

const (
	ViewDay  ViewKind = "day"
	ViewWeek ViewKind = "week"
)

// ParseViewKind validates a view name.
func ParseViewKind(s string) (ViewKind, error) {
	switch ViewKind(s) {
	case ViewDay, ViewWeek:
		return ViewKind(s), nil
	}
	return "", fmt.Errorf("unknown view %q (must be one of: day, week)", s)
}

// View is a day or week window anchored on Date in Location.
type View struct {
	Kind      ViewKind
	Date      time.Time
	Location  *time.Location
	WeekStart time.Weekday
}

func (v View) location() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}

// Days returns the local midnights covered by the view: the anchor day for
// a day view, or the seven days of the anchor's week for a week view.
func (v View) Days() []time.Time {
	loc := v.location()
	first := Midnight(v.Date, loc)
	n := 1
	if v.Kind == ViewWeek {
		back := (int(first.Weekday()) - int(v.WeekStart) + 7) % 7
		first = first.AddDate(0, 0, -back)
		n = 7
	}
	days := make([]time.Time, n)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// Range returns the half-open interval covered by the view.
func (v View) Range() Range {
	days := v.Days()
	return Range{Start: days[0], End: days[len(days)-1].AddDate(0, 0, 1)}
}

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in r.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Overlaps reports whether [start, end) intersects r. An empty or inverted
// interval overlaps when its start lies in r.
func (r Range) Overlaps(start, end time.Time) bool {
	if !end.After(start) {
		return r.Contains(start)
	}
	return start.Before(r.End) && end.After(r.Start)
}
