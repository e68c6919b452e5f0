// Package io reads and writes event lists and computed grids.
//
// # Event files
//
// An event file is JSON or YAML. The long form carries calendars next to
// the events:
//
//	{
//	  "timezone": "Europe/Berlin",
//	  "calendars": [{"id": "work", "name": "Work", "color": "#4C8BF5"}],
//	  "events": [
//	    {"id": "1", "title": "Standup", "calendar_id": "work",
//	     "start": "2024-03-04T09:00", "end": "2024-03-04T09:15"}
//	  ]
//	}
//
// A bare array of events is accepted as the short form. Timestamps without
// an offset are read in the file's timezone, or in the location passed by
// the caller when the file has none.
//
// Events whose start cannot be parsed are kept with a zero start; the
// layout engine skips them. Only structurally broken documents fail.
//
// # Grids
//
// [WriteGrid] and [ReadGrid] serialise a [calendar.Grid] for the json
// output format and the server API.
package io
