package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
)

// Document is a decoded event file.
type Document struct {
	Calendars []calendar.Calendar
	Events    []layout.Event
}

type eventFile struct {
	Timezone  string              `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Calendars []calendar.Calendar `json:"calendars,omitempty" yaml:"calendars,omitempty"`
	Events    []layout.RawEvent   `json:"events" yaml:"events"`
}

func (f eventFile) document(loc *time.Location) (*Document, error) {
	if f.Timezone != "" {
		tz, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone %q: %w", f.Timezone, err)
		}
		loc = tz
	}
	doc := &Document{
		Calendars: f.Calendars,
		Events:    make([]layout.Event, len(f.Events)),
	}
	for i, r := range f.Events {
		doc.Events[i] = r.Event(loc)
	}
	return doc, nil
}

// ReadJSON decodes an event file in either the long or the short form.
func ReadJSON(r io.Reader, loc *time.Location) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var f eventFile
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		err = json.Unmarshal(trimmed, &f.Events)
	} else {
		err = json.Unmarshal(trimmed, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return f.document(loc)
}

// ReadYAML is the YAML counterpart of [ReadJSON].
func ReadYAML(r io.Reader, loc *time.Location) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	var f eventFile
	switch {
	case len(node.Content) == 0:
	case node.Content[0].Kind == yaml.SequenceNode:
		err = node.Content[0].Decode(&f.Events)
	default:
		err = node.Content[0].Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return f.document(loc)
}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ImportFile reads an event file, choosing the decoder by extension.
func ImportFile(path string, loc *time.Location) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if IsYAML(path) {
		return ReadYAML(f, loc)
	}
	return ReadJSON(f, loc)
}

// WriteJSON encodes doc in the long form. Timestamps are written with
// their offset, so the output needs no timezone.
func WriteJSON(w io.Writer, doc *Document) error {
	f := eventFile{
		Calendars: doc.Calendars,
		Events:    make([]layout.RawEvent, len(doc.Events)),
	}
	for i, e := range doc.Events {
		f.Events[i] = e.Raw()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes doc to path as JSON.
func ExportFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, doc)
}
