package styles

import (
	"bytes"
	"fmt"
)

// Simple fills each event with its colour.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    .hour-label { font: 10px sans-serif; fill: #666666; }
    .day-label { font: bold 12px sans-serif; fill: #333333; }
    .title { font: bold 16px sans-serif; fill: #1A1A1A; }
    .event-text { font-family: sans-serif; }
  </style>
`)
}

func (Simple) RenderGridLine(buf *bytes.Buffer, l Line) {
	stroke, dash := "#E0E0E0", ` stroke-dasharray="2,3"`
	if l.Major {
		stroke, dash = "#C8C8C8", ""
	}
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"%s/>`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, stroke, dash)
}

func (Simple) RenderEvent(buf *bytes.Buffer, b Box) {
	fmt.Fprintf(buf, `  <rect id="event-%s" class="event" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" ry="3" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(b.Color))
}

func (Simple) RenderText(buf *bytes.Buffer, b Box) {
	renderLabel(buf, b, TextColor(b.Color))
}

// renderLabel writes the title and, when it fits, the time range below it.
func renderLabel(buf *bytes.Buffer, b Box, fill string) {
	size := FontSize(b)
	label := TruncateLabel(b.Label, b.W, size)
	y := b.Y + textPadding + size
	fmt.Fprintf(buf, `  <text class="event-text" x="%.1f" y="%.1f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		b.X+textPadding, y, size, fill, EscapeXML(label))
	if ShowTime(b) {
		fmt.Fprintf(buf, `  <text class="event-text" x="%.1f" y="%.1f" font-size="%.1f" fill="%s" opacity="0.8">%s</text>`+"\n",
			b.X+textPadding, y+size+2, size*0.9, fill, EscapeXML(b.Time))
	}
}
