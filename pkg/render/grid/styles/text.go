package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

const (
	fontSizeMax   = 12.0
	fontSizeMin   = 7.0
	fontCharWidth = 0.55
	textPadding   = 4.0
)

// FontSize picks a label size that fits the box height.
func FontSize(b Box) float64 {
	return max(fontSizeMin, min(fontSizeMax, b.H*0.45))
}

// TruncateLabel shortens label to fit width at fontSize, marking the cut
// with "..".
func TruncateLabel(label string, width, fontSize float64) string {
	maxChars := int((width - 2*textPadding) / (fontSize * fontCharWidth))
	maxChars = max(maxChars, 3)
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

// ShowTime reports whether the box is tall enough for a second line.
func ShowTime(b Box) bool {
	return b.Time != "" && b.H >= 2*FontSize(b)+2*textPadding
}

// EscapeXML escapes text for element content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TextColor returns black or white, whichever reads better on bg.
func TextColor(bg string) string {
	r, g, b, ok := parseHex(bg)
	if !ok {
		return "#000000"
	}
	// ITU-R BT.601 luma
	if 0.299*r+0.587*g+0.114*b > 150 {
		return "#1A1A1A"
	}
	return "#FFFFFF"
}

// Tint mixes c with white; amount 0 keeps c, 1 gives white.
func Tint(c string, amount float64) string {
	r, g, b, ok := parseHex(c)
	if !ok {
		return "#F2F2F2"
	}
	mix := func(v float64) int { return int(v + (255-v)*amount + 0.5) }
	return "#" + hex2(mix(r)) + hex2(mix(g)) + hex2(mix(b))
}

func parseHex(c string) (r, g, b float64, ok bool) {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float64(v >> 16 & 0xFF), float64(v >> 8 & 0xFF), float64(v & 0xFF), true
}

func hex2(v int) string {
	s := strconv.FormatInt(int64(min(max(v, 0), 255)), 16)
	if len(s) == 1 {
		s = "0" + s
	}
	return strings.ToUpper(s)
}
