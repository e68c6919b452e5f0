package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/source/ics"
	"github.com/matzehuels/calgrid/pkg/source/sqlite"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		spec    string
		want    Kind
		wantErr bool
	}{
		{"team.ics", KindICS, false},
		{"https://example.com/feed", KindICS, false},
		{"webcal://example.com/a.ics", KindICS, false},
		{"events.json", KindJSON, false},
		{"events.YAML", KindYAML, false},
		{"events.yml", KindYAML, false},
		{"sqlite://data/events.db", KindSQLite, false},
		{"events.sqlite", KindSQLite, false},
		{"events.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Detect(tt.spec)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidSource))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	src, err := Open("feed.ics", Options{})
	require.NoError(t, err)
	assert.IsType(t, &ics.Source{}, src)

	src, err = Open("events.yaml", Options{})
	require.NoError(t, err)
	assert.IsType(t, &File{}, src)

	src, err = Open("sqlite://"+filepath.Join(dir, "events.db"), Options{})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, src)
	assert.NoError(t, Close(src))

	_, err = Open("", Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSource))
	_, err = Open("ftp://example.com/a.ics", Options{})
	assert.Error(t, err)
}

func TestFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	body := `{
	  "calendars": [{"id": "work", "color": "#4C8BF5"}],
	  "events": [
	    {"id": "a", "calendar_id": "work", "start": "2024-03-04T09:00", "end": "2024-03-04T10:00"},
	    {"id": "b", "start": "2024-03-05T09:00"},
	    {"id": "c", "start": "sometime"}
	  ]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	src := NewFile(path, false, time.UTC)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	events, err := src.Load(context.Background(), calendar.Range{Start: day, End: day.AddDate(0, 0, 1)})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "c", events[1].ID)
	assert.False(t, events[1].Valid())

	var lister CalendarLister = src
	cals := lister.Calendars()
	require.Len(t, cals, 1)
	assert.Equal(t, "#4C8BF5", cals[0].Color)
}

func TestFileLoadErrors(t *testing.T) {
	ctx := context.Background()
	r := calendar.Range{Start: time.Now(), End: time.Now().Add(time.Hour)}

	_, err := NewFile("missing.json", false, nil).Load(ctx, r)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = NewFile(path, false, nil).Load(ctx, r)
	assert.True(t, errors.Is(err, errors.ErrCodeParseFailed))
}
