package ics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/matzehuels/calgrid/pkg/layout"
)

// Feed is a parsed VCALENDAR.
type Feed struct {
	Name     string
	Color    string
	Timezone string
	Events   []VEvent
}

// VEvent is the subset of a VEVENT needed for layout. Recurrence fields
// are kept raw until [Expand].
type VEvent struct {
	UID      string
	Summary  string
	Color    string
	Type     layout.EventType
	AllDay   bool
	Start    time.Time
	End      time.Time
	HasEnd   bool
	RRule    string
	ExDates  []time.Time
	Override *time.Time // RECURRENCE-ID
}

// Duration returns End-Start, or zero when the event has no end.
func (v VEvent) Duration() time.Duration {
	if !v.HasEnd {
		return 0
	}
	return v.End.Sub(v.Start)
}

// Parse decodes an iCalendar body. Floating times are read in the feed's
// X-WR-TIMEZONE when it names a known zone, otherwise in loc. VEVENTs
// without a usable DTSTART are kept with a zero Start.
func Parse(body []byte, loc *time.Location) (*Feed, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty calendar")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	feed := &Feed{}
	for _, p := range cal.CalendarProperties {
		switch strings.ToUpper(p.IANAToken) {
		case "X-WR-CALNAME", "NAME":
			feed.Name = p.Value
		case "X-APPLE-CALENDAR-COLOR", "COLOR":
			feed.Color = normalizeColor(p.Value)
		case "X-WR-TIMEZONE":
			feed.Timezone = p.Value
		}
	}
	if feed.Timezone != "" {
		if tz, err := time.LoadLocation(feed.Timezone); err == nil {
			loc = tz
		}
	}

	for _, ve := range cal.Events() {
		feed.Events = append(feed.Events, parseVEvent(ve, loc))
	}
	return feed, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) VEvent {
	var out VEvent
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = strings.TrimSpace(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentProperty("COLOR")); p != nil {
		out.Color = normalizeColor(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentProperty("CATEGORIES")); p != nil {
		out.Type = eventType(p.Value)
	}

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if t, allDay, err := propTime(p.Value, p.ICalParameters, loc); err == nil {
			out.Start, out.AllDay = t, allDay
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
		if t, _, err := propTime(p.Value, p.ICalParameters, loc); err == nil {
			out.End, out.HasEnd = t, true
		}
	} else if p := ve.GetProperty(ical.ComponentProperty("DURATION")); p != nil && !out.Start.IsZero() {
		if d, err := parseDuration(p.Value); err == nil {
			out.End, out.HasEnd = out.Start.Add(d), true
		}
	}
	if out.AllDay && !out.HasEnd && !out.Start.IsZero() {
		out.End, out.HasEnd = out.Start.AddDate(0, 0, 1), true
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = strings.TrimSpace(p.Value)
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, _, err := propTime(part, p.ICalParameters, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	if p := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, _, err := propTime(p.Value, p.ICalParameters, loc); err == nil {
			out.Override = &t
		}
	}
	return out
}

// propTime parses a DATE or DATE-TIME value. The bool result reports a
// DATE value.
func propTime(value string, params map[string][]string, loc *time.Location) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if tzid := param(params, "TZID"); tzid != "" {
		if tz, err := time.LoadLocation(strings.Trim(tzid, `"`)); err == nil {
			loc = tz
		}
	}
	isDate := strings.EqualFold(param(params, "VALUE"), "DATE") || (len(value) == 8 && !strings.Contains(value, "T"))
	switch {
	case isDate:
		t, err := time.ParseInLocation("20060102", value, loc)
		return t, true, err
	case strings.HasSuffix(value, "Z"):
		t, err := time.Parse("20060102T150405Z", value)
		return t, false, err
	default:
		t, err := time.ParseInLocation("20060102T150405", value, loc)
		return t, false, err
	}
}

func param(params map[string][]string, name string) string {
	if vs := params[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// parseDuration parses an RFC 5545 DURATION such as PT1H30M, P1D or -P1W.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var d time.Duration
	inTime := false
	n := 0
	digits := false
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int(r-'0')
			digits = true
			continue
		case r == 'T':
			inTime = true
			continue
		}
		if !digits {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		unit, ok := durationUnit(r, inTime)
		if !ok {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d += time.Duration(n) * unit
		n, digits = 0, false
	}
	if digits {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if neg {
		d = -d
	}
	return d, nil
}

func durationUnit(r rune, inTime bool) (time.Duration, bool) {
	if inTime {
		switch r {
		case 'H':
			return time.Hour, true
		case 'M':
			return time.Minute, true
		case 'S':
			return time.Second, true
		}
		return 0, false
	}
	switch r {
	case 'W':
		return 7 * 24 * time.Hour, true
	case 'D':
		return 24 * time.Hour, true
	}
	return 0, false
}

// eventType maps the first recognised CATEGORIES value to an event type.
func eventType(categories string) layout.EventType {
	for _, c := range strings.Split(categories, ",") {
		switch t := layout.EventType(strings.ToLower(strings.TrimSpace(c))); t {
		case layout.EventTypeTask, layout.EventTypeReminder, layout.EventTypeArrangement, layout.EventTypeHoliday:
			return t
		}
	}
	return ""
}

// normalizeColor accepts #rrggbb and drops the alpha byte of the #rrggbbaa
// form some clients write.
func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if len(c) == 9 && strings.HasPrefix(c, "#") {
		return c[:7]
	}
	if len(c) == 7 && strings.HasPrefix(c, "#") {
		return c
	}
	return ""
}
