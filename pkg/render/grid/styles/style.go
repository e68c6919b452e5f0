// Package styles draws the elements of a calendar grid.
//
// A [Style] writes SVG fragments for grid lines, event boxes and their
// labels. [Simple] fills boxes with the event colour; [Outline] draws a
// coloured bar and border on a light background.
package styles

import (
	"bytes"
	"fmt"
)

// Style controls how grid elements are drawn.
type Style interface {
	// Name is the value accepted by [ByName].
	Name() string
	// RenderDefs writes <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderGridLine writes an hour or day separator.
	RenderGridLine(buf *bytes.Buffer, l Line)
	// RenderEvent writes the shape of an event box.
	RenderEvent(buf *bytes.Buffer, b Box)
	// RenderText writes the label of an event box.
	RenderText(buf *bytes.Buffer, b Box)
}

// Box is an event in absolute SVG coordinates.
type Box struct {
	ID     string
	Label  string
	Time   string // e.g. "09:00-10:30", empty for all-day entries
	Color  string
	X, Y   float64
	W, H   float64
	AllDay bool
}

// Line is a grid line. Major lines mark full hours and day borders.
type Line struct {
	X1, Y1, X2, Y2 float64
	Major          bool
}

// ByName returns the style registered under name. The empty name selects
// [Simple].
func ByName(name string) (Style, error) {
	switch name {
	case "", "simple":
		return Simple{}, nil
	case "outline":
		return Outline{}, nil
	}
	return nil, fmt.Errorf("unknown style %q (must be one of: simple, outline)", name)
}

// Names lists the available styles.
func Names() []string { return []string{"simple", "outline"} }
