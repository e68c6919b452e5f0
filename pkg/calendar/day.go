package calendar

import (
	"time"

	"github.com/matzehuels/calgrid/pkg/layout"
)

// ForDay returns the events of the local day starting at day.
//
// Timed events intersecting the day are returned as segments expressed in
// the day's location: a segment starting before midnight starts at 00:00,
// and a segment reaching the next midnight ends at 23:59 so that its
// minute-of-day height stays positive. Events ending before they start are
// kept unchanged when their start falls on the day. All-day events are
// returned separately and are not clipped.
func ForDay(events []layout.Event, day time.Time) (timed, allDay []layout.Event) {
	loc := day.Location()
	r := Range{Start: Midnight(day, loc)}
	r.End = r.Start.AddDate(0, 0, 1)
	lastMinute := r.End.Add(-time.Minute)

	for _, e := range events {
		if !e.Valid() {
			continue
		}
		start := e.Start.In(loc)
		end := e.EffectiveEnd().In(loc)

		if e.AllDay {
			if e.End == nil {
				end = Midnight(start, loc).AddDate(0, 0, 1)
			}
			if r.Overlaps(start, end) {
				allDay = append(allDay, e)
			}
			continue
		}

		if !r.Overlaps(start, end) {
			continue
		}
		seg := e
		seg.Start = start
		// An open-ended event crossing midnight keeps its effective end;
		// a clipped start must not earn a fresh default duration.
		crosses := start.Before(r.Start) || !end.Before(r.End)
		if e.End != nil || crosses {
			local := end
			seg.End = &local
		}
		if end.After(start) {
			if start.Before(r.Start) {
				seg.Start = r.Start
			}
			if !end.Before(r.End) {
				clipped := lastMinute
				seg.End = &clipped
			}
		}
		timed = append(timed, seg)
	}
	return timed, allDay
}
