package sink

import (
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/render"
)

// RenderPNG renders the grid as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(g calendar.Grid, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	return render.ToPNG(RenderSVG(g, opts...), r.scale)
}
