package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/source"
)

// Loaded is the merged output of the load stage.
type Loaded struct {
	Events    []layout.Event
	Calendars []calendar.Calendar
}

type sourceResult struct {
	events    []layout.Event
	calendars []calendar.Calendar
	err       error
}

// Load opens every source of opts, reads the view's range and merges the
// events. Sources are read concurrently; the merge follows source order,
// then inline events. Events sharing an ID keep the first occurrence.
// Events without an ID are never merged.
func Load(ctx context.Context, opts Options, srcOpts source.Options) (Loaded, error) {
	if srcOpts.Location == nil {
		srcOpts.Location = opts.Location()
	}
	if srcOpts.Logger == nil {
		srcOpts.Logger = opts.Logger
	}
	if srcOpts.Logger == nil {
		srcOpts.Logger = log.New(io.Discard)
	}
	srcOpts.Refresh = srcOpts.Refresh || opts.Refresh

	r := opts.CalendarView().Range()
	results := make([]sourceResult, len(opts.Sources))

	var wg sync.WaitGroup
	for i, spec := range opts.Sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = loadSource(ctx, spec, srcOpts, r)
		}()
	}
	wg.Wait()

	var out Loaded
	var batches [][]layout.Event
	for i, res := range results {
		if res.err != nil {
			return Loaded{}, fmt.Errorf("load %s: %w", opts.Sources[i], res.err)
		}
		batches = append(batches, res.events)
		out.Calendars = append(out.Calendars, res.calendars...)
	}

	inline := make([]layout.Event, len(opts.Events))
	for i, raw := range opts.Events {
		inline[i] = raw.Event(opts.Location())
	}
	batches = append(batches, inline)

	out.Events = Merge(batches...)
	return out, nil
}

func loadSource(ctx context.Context, spec string, opts source.Options, r calendar.Range) sourceResult {
	src, err := source.Open(spec, opts)
	if err != nil {
		return sourceResult{err: err}
	}
	defer source.Close(src)

	events, err := src.Load(ctx, r)
	if err != nil {
		return sourceResult{err: err}
	}
	res := sourceResult{events: events}
	if lister, ok := src.(source.CalendarLister); ok {
		res.calendars = lister.Calendars()
	}
	opts.Logger.Debug("loaded source", "source", src.Name(), "events", len(events))
	return res
}

// Merge concatenates event batches, dropping later events whose ID was
// already seen.
func Merge(batches ...[]layout.Event) []layout.Event {
	seen := make(map[string]bool)
	var out []layout.Event
	for _, batch := range batches {
		for _, e := range batch {
			if e.ID != "" {
				if seen[e.ID] {
					continue
				}
				seen[e.ID] = true
			}
			out = append(out, e)
		}
	}
	return out
}
