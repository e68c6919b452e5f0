package sink

import (
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/render"
)

// RenderPDF renders the grid as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(g calendar.Grid, opts ...Option) ([]byte, error) {
	return render.ToPDF(RenderSVG(g, opts...))
}
