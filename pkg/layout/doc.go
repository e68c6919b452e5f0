// Package layout places overlapping calendar events side by side in a
// day column.
//
// # Overview
//
// [Compute] takes the events of a single day, the first hour shown by the
// grid and the vertical scale, and returns one [Placement] per event with a
// valid start. Events that overlap in time are assigned different columns
// of their overlap group; events that overlap nothing get the full width.
//
// The algorithm runs in two phases:
//
//  1. A left-to-right sweep over events sorted by start groups them. An
//     event joins the open group when it overlaps any member already in it,
//     so chains of pairwise overlaps end up in one group.
//  2. Inside each group, columns are assigned greedily: an event takes the
//     first column whose last occupant has ended by the event's start, or
//     opens a new column. Every member of the group then shares the group's
//     final column count.
//
// This is not a minimum interval colouring. Two layouts of the same events
// produced by a different colouring would differ visually, so the two-phase
// behaviour is kept as is.
//
// # Geometry
//
// Vertical geometry is derived from the minute of day of the start and
// effective end, measured in each instant's own location:
//
//	top    = (startMinutes - startHour*60) / 60 * pixelsPerHour
//	height = (endMinutes - startMinutes) / 60 * pixelsPerHour
//
// Horizontal geometry is expressed in percent of the day column:
//
//	width = 100 / totalColumns
//	left  = column * width
//
// Nothing is clamped. An event before startHour has a negative Top, and an
// event whose end precedes its start, or which crosses midnight, has a
// zero or negative Height. Callers that need per-day segments should split
// events first (see the calendar package).
//
// # Missing data
//
// An event without an end lasts [DefaultDuration]. An event with a zero
// Start is dropped before layout; [Compute] never fails.
package layout
