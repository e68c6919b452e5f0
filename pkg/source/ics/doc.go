// Package ics loads events from iCalendar files and feeds.
//
// VEVENTs are parsed with github.com/arran4/golang-ical. Recurring events
// are expanded into the requested range with github.com/teambition/rrule-go,
// honouring EXDATE and RECURRENCE-ID overrides. Expansion stops after
// [MaxOccurrences] instances per UID.
//
// Timestamps follow RFC 5545: a trailing Z is UTC, a TZID parameter names
// the zone, and anything else is floating and read in the calendar's
// X-WR-TIMEZONE or the configured location. Date values mark all-day
// events.
package ics
