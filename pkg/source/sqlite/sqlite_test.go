package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"), time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadFiltersByRange(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := day.Add(10 * time.Hour)
	require.NoError(t, s.SaveEvents(ctx, []layout.Event{
		{ID: "in", Title: "Planning", Start: day.Add(9 * time.Hour), End: &end, Type: layout.EventTypeTask, CalendarID: "work"},
		{ID: "open", Start: day.Add(23*time.Hour + 45*time.Minute)},
		{ID: "before", Start: day.Add(-2 * time.Hour)},
		{ID: "after", Start: day.AddDate(0, 0, 1)},
	}))
	_, err := s.db.Exec(`INSERT INTO events (id, start) VALUES ('bad', 'yesterday-ish')`)
	require.NoError(t, err)

	events, err := s.Load(ctx, calendar.Range{Start: day, End: day.AddDate(0, 0, 1)})
	require.NoError(t, err)

	ids := map[string]layout.Event{}
	for _, e := range events {
		ids[e.ID] = e
	}
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "in")
	assert.Contains(t, ids, "open", "event without end reaching midnight")
	assert.Contains(t, ids, "bad", "unparseable start is passed through")
	assert.False(t, ids["bad"].Valid())

	in := ids["in"]
	assert.Equal(t, "Planning", in.Title)
	assert.Equal(t, layout.EventTypeTask, in.Type)
	assert.Equal(t, "work", in.CalendarID)
	require.NotNil(t, in.End)
	assert.True(t, in.End.Equal(end))
	assert.Nil(t, ids["open"].End)
}

func TestCalendars(t *testing.T) {
	s := openTemp(t)
	assert.Empty(t, s.Calendars())

	require.NoError(t, s.SaveCalendars(context.Background(), []calendar.Calendar{
		{ID: "work", Name: "Work", Color: "#4C8BF5"},
		{ID: "home", Hidden: true},
	}))
	cals := s.Calendars()
	require.Len(t, cals, 2)
	assert.Equal(t, "home", cals[0].ID)
	assert.True(t, cals[0].Hidden)
	assert.Equal(t, "Work", cals[1].Name)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "sqlite://"+path, s.Name())
}
