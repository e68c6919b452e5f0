package sink

import (
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/render/grid/styles"
)

const (
	DefaultColumnWidth = 180.0

	gutterWidth     = 56.0
	headerHeight    = 32.0
	titleHeight     = 36.0
	allDayRowHeight = 22.0
	framePadding    = 8.0
	boxInset        = 1.0
	minBoxHeight    = 4.0
)

// Option configures every renderer in this package.
type Option func(*renderer)

type renderer struct {
	style       styles.Style
	columnWidth float64
	title       string
	scale       float64
}

// WithStyle selects the drawing style (default [styles.Simple]).
func WithStyle(s styles.Style) Option { return func(r *renderer) { r.style = s } }

// WithColumnWidth sets the pixel width of a day column.
func WithColumnWidth(w float64) Option { return func(r *renderer) { r.columnWidth = w } }

// WithTitle adds a heading above the grid.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// WithScale sets the PNG scale factor (default 2).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) renderer {
	r := renderer{style: styles.Simple{}, columnWidth: DefaultColumnWidth, scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = styles.Simple{}
	}
	if r.columnWidth <= 0 {
		r.columnWidth = DefaultColumnWidth
	}
	return r
}

// frame holds the absolute geometry of a rendered grid.
type frame struct {
	colW       float64
	headerTop  float64
	allDayTop  float64
	allDayRows int
	gridTop    float64
	gridHeight float64
	width      float64
	height     float64
}

func newFrame(g calendar.Grid, r renderer) frame {
	f := frame{colW: r.columnWidth, gridHeight: g.Height()}
	if r.title != "" {
		f.headerTop = titleHeight
	}
	f.allDayTop = f.headerTop + headerHeight
	for _, d := range g.Days {
		f.allDayRows = max(f.allDayRows, len(d.AllDay))
	}
	f.gridTop = f.allDayTop + float64(f.allDayRows)*allDayRowHeight
	f.width = gutterWidth + f.colW*float64(len(g.Days)) + framePadding
	f.height = f.gridTop + f.gridHeight + framePadding
	return f
}

func (f frame) dayX(day int) float64 { return gutterWidth + float64(day)*f.colW }

// box converts a placement of the given day column to SVG coordinates.
func (f frame) box(day int, p layout.Placement) styles.Box {
	e := p.Event
	return styles.Box{
		ID:    e.ID,
		Label: e.Title,
		Time:  timeRange(*e),
		Color: e.Color,
		X:     f.dayX(day) + p.Left/100*f.colW + boxInset,
		Y:     f.gridTop + p.Top,
		W:     p.Width/100*f.colW - 2*boxInset,
		H:     max(p.Height, minBoxHeight),
	}
}

func (f frame) allDayBox(day, row int, e layout.Event) styles.Box {
	return styles.Box{
		ID:     e.ID,
		Label:  e.Title,
		Color:  e.Color,
		X:      f.dayX(day) + boxInset,
		Y:      f.allDayTop + float64(row)*allDayRowHeight + boxInset,
		W:      f.colW - 2*boxInset,
		H:      allDayRowHeight - 2*boxInset,
		AllDay: true,
	}
}

func timeRange(e layout.Event) string {
	return e.Start.Format("15:04") + "-" + e.EffectiveEnd().Format("15:04")
}
