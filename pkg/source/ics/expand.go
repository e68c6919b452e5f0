package ics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
)

// MaxOccurrences caps the instances produced for one recurring UID.
const MaxOccurrences = 5000

// derivedUID is a name-based UUID for a VEVENT that has no UID.
func derivedUID(v VEvent, index int) string {
	name := fmt.Sprintf("%s|%s|%d", v.Summary, v.Start.UTC().Format(time.RFC3339), index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Expansion is the result of [Expand].
type Expansion struct {
	Events []layout.Event
	// Truncated lists UIDs that hit [MaxOccurrences].
	Truncated []string
	// Skipped counts recurring events whose RRULE could not be parsed.
	Skipped int
}

// Expand turns parsed VEVENTs into layout events intersecting r. Times are
// converted to loc. Events without a usable start are passed through with
// a zero Start so the layout engine can drop them. Recurring instances get
// the ID "<uid>/<UTC start>"; single events keep their UID. VEVENTs with
// no UID get one derived from their summary, start and position, so repeated
// loads of the same feed agree on it.
func Expand(vevents []VEvent, r calendar.Range, loc *time.Location) Expansion {
	if loc == nil {
		loc = time.UTC
	}
	var out Expansion

	bases := make([]VEvent, 0, len(vevents))
	overrides := make(map[string][]VEvent)
	for i, v := range vevents {
		if v.UID == "" {
			v.UID = derivedUID(v, i)
		}
		if v.Override != nil {
			overrides[v.UID] = append(overrides[v.UID], v)
			continue
		}
		bases = append(bases, v)
	}

	seen := make(map[string]bool, len(bases))
	for _, v := range bases {
		seen[v.UID] = true
		switch {
		case v.Start.IsZero():
			out.Events = append(out.Events, toEvent(v, v.UID, time.Time{}, nil, loc))
		case v.RRule == "":
			if ev, ok := single(v, r, loc); ok {
				out.Events = append(out.Events, ev)
			}
		default:
			events, truncated, err := recurring(v, overrides[v.UID], r, loc)
			if err != nil {
				out.Skipped++
				continue
			}
			if truncated {
				out.Truncated = append(out.Truncated, v.UID)
			}
			out.Events = append(out.Events, events...)
		}
	}

	// Overrides whose master is missing are shown as they are.
	for uid, ovs := range overrides {
		if seen[uid] {
			continue
		}
		for _, o := range ovs {
			if ev, ok := single(o, r, loc); ok {
				ev.ID = instanceID(uid, *o.Override)
				out.Events = append(out.Events, ev)
			}
		}
	}
	return out
}

func single(v VEvent, r calendar.Range, loc *time.Location) (layout.Event, bool) {
	if !r.Overlaps(v.Start, effectiveEnd(v, v.Start)) {
		return layout.Event{}, false
	}
	return toEvent(v, v.UID, v.Start, endPtr(v, v.Start), loc), true
}

func recurring(v VEvent, overrides []VEvent, r calendar.Range, loc *time.Location) ([]layout.Event, bool, error) {
	rule, err := rrule.StrToRRule(v.RRule)
	if err != nil {
		return nil, false, fmt.Errorf("rrule %q: %w", v.RRule, err)
	}
	rule.DTStart(v.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range v.ExDates {
		set.ExDate(ex.In(v.Start.Location()))
	}

	span := effectiveEnd(v, v.Start).Sub(v.Start)
	if span < 0 {
		span = 0
	}
	// An instance starting before the range can still reach into it.
	from := r.Start.Add(-span).In(v.Start.Location())
	to := r.End.In(v.Start.Location())

	starts := set.Between(from, to, true)
	truncated := false
	if len(starts) > MaxOccurrences {
		starts = starts[:MaxOccurrences]
		truncated = true
	}

	var events []layout.Event
	for _, s := range starts {
		inst := v
		instStart := s
		if o, ok := findOverride(overrides, s); ok {
			inst = o
			instStart = o.Start
		}
		if !r.Overlaps(instStart, effectiveEnd(inst, instStart)) {
			continue
		}
		id := instanceID(v.UID, s)
		if inst.Override != nil {
			events = append(events, toEvent(inst, id, inst.Start, endPtr(inst, inst.Start), loc))
			continue
		}
		events = append(events, toEvent(inst, id, s, endPtr(v, s), loc))
	}
	return events, truncated, nil
}

func findOverride(overrides []VEvent, start time.Time) (VEvent, bool) {
	for _, o := range overrides {
		if o.Override.Equal(start) {
			return o, true
		}
	}
	return VEvent{}, false
}

// effectiveEnd returns the end of the instance starting at start.
func effectiveEnd(v VEvent, start time.Time) time.Time {
	if v.HasEnd {
		return start.Add(v.Duration())
	}
	return start.Add(layout.DefaultDuration)
}

func endPtr(v VEvent, start time.Time) *time.Time {
	if !v.HasEnd {
		return nil
	}
	end := start.Add(v.Duration())
	return &end
}

func instanceID(uid string, start time.Time) string {
	return uid + "/" + start.UTC().Format("20060102T150405Z")
}

func toEvent(v VEvent, id string, start time.Time, end *time.Time, loc *time.Location) layout.Event {
	ev := layout.Event{
		ID:     id,
		Title:  v.Summary,
		Color:  v.Color,
		Type:   v.Type,
		AllDay: v.AllDay,
	}
	if !start.IsZero() {
		ev.Start = convert(start, v.AllDay, loc)
	}
	if end != nil {
		e := convert(*end, v.AllDay, loc)
		ev.End = &e
	}
	return ev
}

// convert moves t into loc. Dates keep their calendar day.
func convert(t time.Time, allDay bool, loc *time.Location) time.Time {
	if allDay {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	return t.In(loc)
}
