// Package conflict draws overlapping events as a graph.
//
// Each day becomes a cluster; each timed event a node; and every pair of
// overlapping events an undirected edge. Connected components are exactly
// the overlap groups of the layout engine when every member overlaps
// another, which makes the graph a quick way to see why a column is
// crowded.
//
//	dot := conflict.ToDOT(grid, conflict.Options{})
//	svg, err := conflict.RenderSVG(ctx, dot)
//
// Rendering uses github.com/goccy/go-graphviz, which embeds Graphviz and
// needs no system install.
package conflict
