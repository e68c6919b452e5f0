package source

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	calio "github.com/matzehuels/calgrid/pkg/io"
	"github.com/matzehuels/calgrid/pkg/layout"
)

// File reads a JSON or YAML event file.
type File struct {
	path string
	yaml bool
	loc  *time.Location
	cals []calendar.Calendar
}

// NewFile creates a source for an event file.
func NewFile(path string, yaml bool, loc *time.Location) *File {
	return &File{path: path, yaml: yaml, loc: loc}
}

func (f *File) Name() string { return f.path }

// Load reads the whole file and keeps the events intersecting r. Events
// without a usable start are kept for the layout engine to drop.
func (f *File) Load(ctx context.Context, r calendar.Range) ([]layout.Event, error) {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", f.path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var doc *calio.Document
	if f.yaml {
		doc, err = calio.ReadYAML(file, f.loc)
	} else {
		doc, err = calio.ReadJSON(file, f.loc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", f.path)
	}
	f.cals = doc.Calendars

	out := make([]layout.Event, 0, len(doc.Events))
	for _, e := range doc.Events {
		if e.Valid() && !r.Overlaps(e.Start, e.EffectiveEnd()) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Calendars returns the calendars declared in the file.
func (f *File) Calendars() []calendar.Calendar { return f.cals }
