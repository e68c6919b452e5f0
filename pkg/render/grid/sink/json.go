package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/calgrid/pkg/calendar"
)

type jsonOutput struct {
	Title         string    `json:"title,omitempty"`
	View          string    `json:"view"`
	Timezone      string    `json:"timezone"`
	StartHour     int       `json:"start_hour"`
	EndHour       int       `json:"end_hour"`
	PixelsPerHour float64   `json:"pixels_per_hour"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	ColumnWidth   float64   `json:"column_width"`
	Style         string    `json:"style"`
	Days          []jsonDay `json:"days"`
}

type jsonDay struct {
	Date   string       `json:"date"`
	Events []jsonEvent  `json:"events"`
	AllDay []jsonAllDay `json:"all_day,omitempty"`
}

type jsonEvent struct {
	ID           string  `json:"id"`
	Title        string  `json:"title,omitempty"`
	Color        string  `json:"color,omitempty"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Column       int     `json:"column"`
	TotalColumns int     `json:"total_columns"`
	Top          float64 `json:"top"`
	Height       float64 `json:"height"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
	Box          jsonBox `json:"box"`
}

type jsonAllDay struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Color string `json:"color,omitempty"`
}

type jsonBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RenderJSON emits the grid with each placement's percentages and its
// absolute box in the SVG frame.
func RenderJSON(g calendar.Grid, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	f := newFrame(g, r)

	out := jsonOutput{
		Title:         r.title,
		View:          string(g.View),
		Timezone:      g.Timezone,
		StartHour:     g.StartHour,
		EndHour:       g.EndHour,
		PixelsPerHour: g.PixelsPerHour,
		Width:         f.width,
		Height:        f.height,
		ColumnWidth:   f.colW,
		Style:         r.style.Name(),
		Days:          make([]jsonDay, len(g.Days)),
	}
	for i, d := range g.Days {
		day := jsonDay{Date: d.Date.Format(calendar.DateLayout), Events: make([]jsonEvent, 0, len(d.Placements))}
		for _, p := range d.Placements {
			b := f.box(i, p)
			day.Events = append(day.Events, jsonEvent{
				ID:           p.Event.ID,
				Title:        p.Event.Title,
				Color:        p.Event.Color,
				Start:        p.Event.Start.Format(time.RFC3339),
				End:          p.Event.EffectiveEnd().Format(time.RFC3339),
				Column:       p.Column,
				TotalColumns: p.TotalColumns,
				Top:          p.Top,
				Height:       p.Height,
				Left:         p.Left,
				Width:        p.Width,
				Box:          jsonBox{X: b.X, Y: b.Y, W: b.W, H: b.H},
			})
		}
		for _, e := range d.AllDay {
			day.AllDay = append(day.AllDay, jsonAllDay{ID: e.ID, Title: e.Title, Color: e.Color})
		}
		out.Days[i] = day
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
