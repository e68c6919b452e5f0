// Package sink writes a [calendar.Grid] in the supported output formats.
//
// [RenderSVG] draws the grid: a gutter with hour labels, one column per
// day, an all-day strip above the timed area and a box per placement.
// A placement's box sits at
//
//	x = gutter + day*columnWidth + left%*columnWidth
//	y = gridTop + top
//
// where top is already relative to the grid's start hour. Boxes outside
// the visible hours are clipped. [RenderJSON] emits the same geometry as
// data, and [RenderPNG] and [RenderPDF] convert the SVG with rsvg-convert.
//
// All renderers take the same functional [Option]s.
//
// [calendar.Grid]: github.com/matzehuels/calgrid/pkg/calendar.Grid
package sink
