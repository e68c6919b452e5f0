// Package pkg provides the libraries behind calgrid, a layout engine for
// overlapping calendar events.
//
// # Overview
//
// Calgrid places the events of a day side by side when they overlap, the
// way calendar apps draw a busy afternoon. Events that overlap directly or
// through a chain of other events form a group; every member of a group
// shares its column count, and each event gets the first free column.
//
// # Architecture
//
// The typical data flow:
//
//	ICS feed / event file / SQLite store
//	         ↓
//	    [source] (load and expand recurrences for the view's range)
//	         ↓
//	    [calendar] (split into days, apply calendar colours and visibility)
//	         ↓
//	    [layout] (overlap groups, columns and pixel geometry)
//	         ↓
//	    [render] (SVG, PNG, PDF, JSON and DOT conflict graphs)
//
// # Quick Start
//
//	events := []layout.Event{
//	    {ID: "a", Title: "Standup", Start: nine, End: &ten},
//	    {ID: "b", Title: "Review", Start: nineThirty},
//	}
//	for _, p := range layout.Compute(events, 8, 60) {
//	    fmt.Printf("%s col %d/%d top=%.0fpx\n", p.Event.Title, p.Column+1, p.TotalColumns, p.Top)
//	}
//
// # Main Packages
//
// [layout] - The placement algorithm: stable sort, sweep grouping and
// greedy column assignment.
//
// [calendar] - Day and week views, calendars and grids built from many
// days of placements.
//
// [source] - Event sources: ICS feeds and files ([source/ics]), JSON and
// YAML event files and SQLite databases ([source/sqlite]).
//
// [render] - Output formats. [render/grid/sink] draws the grid;
// [render/conflict] draws overlap groups with Graphviz.
//
// [pipeline] - The load → layout → render pipeline shared by the CLI, the
// HTTP server and the watch loop.
//
// [cache] - File, Redis and MongoDB caches for feeds, layouts and
// artifacts.
//
// [config] - The TOML configuration file.
//
// [publish] - Publishes grids to NATS.
//
// [io] - Event file and grid JSON encoding.
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for logging and metrics.
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/layout
// [calendar]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/calendar
// [source]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/source
// [source/ics]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/source/ics
// [source/sqlite]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/source/sqlite
// [render]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/render
// [render/grid/sink]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/render/grid/sink
// [render/conflict]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/render/conflict
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/config
// [publish]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/publish
// [io]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/calgrid/pkg/observability
package pkg
