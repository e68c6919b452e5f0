package layout

// Placement is the computed position of one event inside its day column.
// Top and Height are in pixels; Left and Width are percentages of the
// column width.
type Placement struct {
	Event        *Event  `json:"event"`
	Column       int     `json:"column"`
	TotalColumns int     `json:"total_columns"`
	Top          float64 `json:"top"`
	Height       float64 `json:"height"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
}

// Bottom returns the pixel offset of the lower edge.
func (p Placement) Bottom() float64 { return p.Top + p.Height }

// Right returns the right edge in percent.
func (p Placement) Right() float64 { return p.Left + p.Width }

// CenterY returns the vertical center in pixels.
func (p Placement) CenterY() float64 { return p.Top + p.Height/2 }
