// Package calendar turns a flat event list into the per-day columns of a
// day or week grid.
//
// A [View] names the days to show in an explicit location. [ForDay] selects
// and clips the timed events of one local day, and [BuildGrid] runs the
// layout engine for every day of a view. "Today" is always derived from an
// injected [Clock]; nothing in this package reads the wall clock directly.
package calendar
