package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/calgrid/pkg/calendar"
)

// WriteGrid encodes g as indented JSON.
func WriteGrid(w io.Writer, g calendar.Grid) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode grid: %w", err)
	}
	return nil
}

// ReadGrid decodes a grid written by [WriteGrid].
func ReadGrid(r io.Reader) (calendar.Grid, error) {
	var g calendar.Grid
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return calendar.Grid{}, fmt.Errorf("decode grid: %w", err)
	}
	return g, nil
}
