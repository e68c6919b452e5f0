package conflict

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/render"
	"github.com/matzehuels/calgrid/pkg/render/grid/styles"
)

// Options configures [ToDOT].
type Options struct {
	// Isolated includes events that overlap nothing.
	Isolated bool
}

// Edge is a pair of overlapping events of one day.
type Edge struct {
	Day  int
	A, B *layout.Event
}

// Edges lists the overlapping pairs of each day in placement order.
func Edges(g calendar.Grid) []Edge {
	var out []Edge
	for d, day := range g.Days {
		ps := day.Placements
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				if layout.Overlaps(ps[i].Event, ps[j].Event) {
					out = append(out, Edge{Day: d, A: ps[i].Event, B: ps[j].Event})
				}
			}
		}
	}
	return out
}

// ToDOT converts the overlaps of g to an undirected Graphviz graph.
func ToDOT(g calendar.Grid, opts Options) string {
	edges := Edges(g)
	linked := make(map[string]bool)
	for _, e := range edges {
		linked[nodeID(e.Day, e.A)] = true
		linked[nodeID(e.Day, e.B)] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, fontname=\"sans-serif\"];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n")

	for d, day := range g.Days {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", d)
		fmt.Fprintf(&buf, "    label=%q;\n", day.Date.Format("Mon 02 Jan"))
		for _, p := range day.Placements {
			id := nodeID(d, p.Event)
			if !opts.Isolated && !linked[id] {
				continue
			}
			fmt.Fprintf(&buf, "    %q [label=%q, fillcolor=%q, fontcolor=%q];\n",
				id, label(p), p.Event.Color, styles.TextColor(p.Event.Color))
		}
		buf.WriteString("  }\n")
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", nodeID(e.Day, e.A), nodeID(e.Day, e.B))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(day int, e *layout.Event) string {
	return strconv.Itoa(day) + "/" + e.ID
}

func label(p layout.Placement) string {
	title := p.Event.Title
	if title == "" {
		title = p.Event.ID
	}
	return fmt.Sprintf("%s\n%s-%s\ncol %d/%d", title,
		p.Event.Start.Format("15:04"), p.Event.EffectiveEnd().Format("15:04"),
		p.Column+1, p.TotalColumns)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the SVG scales like the grid output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
