package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/render/grid/styles"
)

// RenderSVG draws g as a standalone SVG document.
func RenderSVG(g calendar.Grid, opts ...Option) []byte {
	r := newRenderer(opts...)
	f := newFrame(g, r)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.width, f.height, f.width, f.height)
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, `  <defs><clipPath id="grid-clip"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath></defs>`+"\n",
		gutterWidth, f.gridTop, f.colW*float64(len(g.Days)), f.gridHeight)
	buf.WriteString(`  <rect width="100%" height="100%" fill="#FFFFFF"/>` + "\n")

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="24">%s</text>`+"\n", gutterWidth, styles.EscapeXML(r.title))
	}
	renderHeader(&buf, g, f)
	renderHours(&buf, r.style, g, f)
	renderDayLines(&buf, r.style, g, f)

	for i, d := range g.Days {
		for row, e := range d.AllDay {
			b := f.allDayBox(i, row, e)
			r.style.RenderEvent(&buf, b)
			r.style.RenderText(&buf, b)
		}
	}

	buf.WriteString(`  <g clip-path="url(#grid-clip)">` + "\n")
	for i, d := range g.Days {
		for _, p := range d.Placements {
			b := f.box(i, p)
			r.style.RenderEvent(&buf, b)
			r.style.RenderText(&buf, b)
		}
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderHeader(buf *bytes.Buffer, g calendar.Grid, f frame) {
	for i, d := range g.Days {
		fmt.Fprintf(buf, `  <text class="day-label" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			f.dayX(i)+f.colW/2, f.headerTop+headerHeight-10, d.Date.Format("Mon 02 Jan"))
	}
}

func renderHours(buf *bytes.Buffer, s styles.Style, g calendar.Grid, f frame) {
	right := f.dayX(len(g.Days))
	for h := g.StartHour; h <= g.EndHour; h++ {
		y := f.gridTop + float64(h-g.StartHour)*g.PixelsPerHour
		s.RenderGridLine(buf, styles.Line{X1: gutterWidth, Y1: y, X2: right, Y2: y, Major: true})
		if h < g.EndHour {
			fmt.Fprintf(buf, `  <text class="hour-label" x="%.1f" y="%.1f" text-anchor="end">%02d:00</text>`+"\n",
				gutterWidth-6, y+4, h)
			if g.PixelsPerHour >= 40 {
				half := y + g.PixelsPerHour/2
				s.RenderGridLine(buf, styles.Line{X1: gutterWidth, Y1: half, X2: right, Y2: half})
			}
		}
	}
}

func renderDayLines(buf *bytes.Buffer, s styles.Style, g calendar.Grid, f frame) {
	bottom := f.gridTop + f.gridHeight
	for i := 0; i <= len(g.Days); i++ {
		x := f.dayX(i)
		s.RenderGridLine(buf, styles.Line{X1: x, Y1: f.allDayTop, X2: x, Y2: bottom, Major: true})
	}
}
