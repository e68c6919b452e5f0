package layout

import (
	"slices"
	"time"
)

// Compute lays out the events of one day column.
//
// Events with a zero Start are skipped. The remaining events are sorted by
// start (stable, so equal starts keep their input order), grouped by
// overlap and assigned columns. The result holds one placement per valid
// event, ordered by group and then by start. Placements point back into
// events; Compute does not modify them.
func Compute(events []Event, startHour int, pixelsPerHour float64) []Placement {
	sorted := sortedValid(events)
	out := make([]Placement, 0, len(sorted))
	for _, group := range sweep(sorted) {
		out = append(out, placeGroup(group, startHour, pixelsPerHour)...)
	}
	return out
}

// Groups returns the overlap groups of events in sweep order. Members of a
// group are sorted by start.
func Groups(events []Event) [][]*Event {
	return sweep(sortedValid(events))
}

// Overlaps reports whether the half-open intervals [start, effective end)
// of a and b intersect. Touching endpoints do not overlap.
func Overlaps(a, b *Event) bool {
	return a.Start.Before(b.EffectiveEnd()) && a.EffectiveEnd().After(b.Start)
}

func sortedValid(events []Event) []*Event {
	valid := make([]*Event, 0, len(events))
	for i := range events {
		if events[i].Valid() {
			valid = append(valid, &events[i])
		}
	}
	slices.SortStableFunc(valid, func(a, b *Event) int {
		return a.Start.Compare(b.Start)
	})
	return valid
}

// sweep closes the open group as soon as an event overlaps none of its
// members.
func sweep(sorted []*Event) [][]*Event {
	var groups [][]*Event
	var current []*Event
	for _, e := range sorted {
		if len(current) > 0 && !overlapsAny(e, current) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, e)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func overlapsAny(e *Event, group []*Event) bool {
	for _, m := range group {
		if Overlaps(e, m) {
			return true
		}
	}
	return false
}

// assignColumns returns the column of each group member and the number of
// columns opened.
func assignColumns(group []*Event) ([]int, int) {
	var occupants []*Event
	cols := make([]int, len(group))
	for i, e := range group {
		col := -1
		for c, occ := range occupants {
			if !occ.EffectiveEnd().After(e.Start) {
				col = c
				break
			}
		}
		if col < 0 {
			occupants = append(occupants, e)
			col = len(occupants) - 1
		} else {
			occupants[col] = e
		}
		cols[i] = col
	}
	return cols, len(occupants)
}

func placeGroup(group []*Event, startHour int, pixelsPerHour float64) []Placement {
	cols, total := assignColumns(group)
	width := 100 / float64(total)
	offset := startHour * 60

	out := make([]Placement, len(group))
	for i, e := range group {
		startMin := minuteOfDay(e.Start)
		endMin := minuteOfDay(e.EffectiveEnd())
		out[i] = Placement{
			Event:        e,
			Column:       cols[i],
			TotalColumns: total,
			Top:          float64(startMin-offset) / 60 * pixelsPerHour,
			Height:       float64(endMin-startMin) / 60 * pixelsPerHour,
			Left:         float64(cols[i]) * width,
			Width:        width,
		}
	}
	return out
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
