// Package render turns computed grids into output files.
//
// The SVG renderer in [grid/sink] is the primary output; PNG and PDF are
// produced from it with [ToPNG] and [ToPDF], which shell out to
// rsvg-convert from librsvg. The [conflict] subpackage draws each day's
// overlap groups as a Graphviz graph.
//
//	svg := sink.RenderSVG(g, sink.WithStyle(styles.Outline{}))
//	png, err := render.ToPNG(svg, 2.0)
//
// [grid/sink]: github.com/matzehuels/calgrid/pkg/render/grid/sink
// [conflict]: github.com/matzehuels/calgrid/pkg/render/conflict
package render
