package styles

import (
	"bytes"
	"fmt"
)

// Outline draws a tinted box with a coloured border and a bar on the left
// edge. It prints well in greyscale.
type Outline struct{}

const outlineBar = 3.0

func (Outline) Name() string { return "outline" }

func (Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    .hour-label { font: 10px monospace; fill: #444444; }
    .day-label { font: bold 12px monospace; fill: #000000; }
    .title { font: bold 16px monospace; fill: #000000; }
    .event-text { font-family: monospace; }
  </style>
`)
}

func (Outline) RenderGridLine(buf *bytes.Buffer, l Line) {
	width := 0.5
	if l.Major {
		width = 1
	}
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#000000" stroke-opacity="0.25" stroke-width="%.1f"/>`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, width)
}

func (Outline) RenderEvent(buf *bytes.Buffer, b Box) {
	color := EscapeXML(b.Color)
	fmt.Fprintf(buf, `  <rect id="event-%s" class="event" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		EscapeXML(b.ID), b.X, b.Y, b.W, b.H, Tint(b.Color, 0.85), color)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		b.X, b.Y, min(outlineBar, b.W), b.H, color)
}

func (Outline) RenderText(buf *bytes.Buffer, b Box) {
	shifted := b
	shifted.X += outlineBar
	shifted.W -= outlineBar
	renderLabel(buf, shifted, "#1A1A1A")
}
