package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

const watchEvents = `{
  "events": [
    {"id": "a", "title": "Standup", "start": "2024-03-04T09:00:00Z", "end": "2024-03-04T10:00:00Z"},
    {"id": "b", "title": "Review", "start": "2024-03-04T09:30:00Z", "end": "2024-03-04T10:30:00Z"}
  ]
}`

type recordingPublisher struct {
	grids []calendar.Grid
}

func (p *recordingPublisher) PublishGrid(_ context.Context, g calendar.Grid) error {
	p.grids = append(p.grids, g)
	return nil
}

func TestWatcherTick(t *testing.T) {
	src := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(src, []byte(watchEvents), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "out")
	logger := log.New(&bytes.Buffer{})
	pub := &recordingPublisher{}

	w := &watcher{
		runner: pipeline.NewRunner(cache.NewNullCache(), nil, logger),
		opts: pipeline.Options{
			Sources: []string{src},
			Date:    "2024-03-04",
			Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
			Refresh: true,
		},
		outputDir: outDir,
		publisher: pub,
		logger:    logger,
	}

	for range 2 {
		if err := w.tick(context.Background()); err != nil {
			t.Fatalf("tick() error: %v", err)
		}
	}

	for _, ext := range []string{"json", "svg"} {
		p := filepath.Join(outDir, "calgrid-day-2024-03-04."+ext)
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s: %v", p, err)
		}
	}
	if len(pub.grids) != 2 {
		t.Fatalf("published %d grids, want 2", len(pub.grids))
	}
	if got := pub.grids[0].MaxColumns(); got != 2 {
		t.Errorf("MaxColumns() = %d, want 2", got)
	}
}

func TestWatcherTickError(t *testing.T) {
	w := &watcher{
		runner: pipeline.NewRunner(cache.NewNullCache(), nil, log.New(&bytes.Buffer{})),
		opts:   pipeline.Options{Sources: []string{filepath.Join(t.TempDir(), "missing.json")}},
		logger: log.New(&bytes.Buffer{}),
	}
	if err := w.tick(context.Background()); err == nil {
		t.Error("tick() with a missing source succeeded")
	}
}

func TestWatcherBadSchedule(t *testing.T) {
	w := &watcher{logger: log.New(&bytes.Buffer{})}
	if err := w.run(context.Background(), "not a schedule"); err == nil {
		t.Error("run() accepted an invalid schedule")
	}
}
