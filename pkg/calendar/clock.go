package calendar

import (
	"fmt"
	"time"
)

// Clock returns the current instant.
type Clock func() time.Time

// SystemClock reads the process clock.
var SystemClock Clock = time.Now

// DateLayout is the textual form of a calendar date.
const DateLayout = "2006-01-02"

// Midnight returns the start of t's day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today returns the start of the current day in loc according to clock.
func Today(clock Clock, loc *time.Location) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	return Midnight(clock(), loc)
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
