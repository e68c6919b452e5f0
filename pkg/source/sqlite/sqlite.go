// Package sqlite reads events from a SQLite database.
//
// The database holds an events table and an optional calendars table (see
// schema.sql). Timestamps are stored as text in any format accepted by
// [layout.ParseTime]; rows whose start does not parse are returned with a
// zero start and dropped later by the layout engine.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a database handle.
type Store struct {
	db   *sql.DB
	path string
	loc  *time.Location
}

// Open opens the database at path, creating the schema when missing.
// Floating timestamps are read in loc (UTC when nil).
func Open(path string, loc *time.Location) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Store{db: db, path: path, loc: loc}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name returns the sqlite:// spec of the store.
func (s *Store) Name() string { return "sqlite://" + s.path }

// Load returns the events intersecting r plus every row whose start does
// not parse.
func (s *Store) Load(ctx context.Context, r calendar.Range) ([]layout.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, start, "end", color, type, calendar_id, all_day FROM events ORDER BY start, id`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []layout.Event
	for rows.Next() {
		var (
			raw        layout.RawEvent
			start, end sql.NullString
			typ        string
			allDay     bool
		)
		if err := rows.Scan(&raw.ID, &raw.Title, &start, &end, &raw.Color, &typ, &raw.CalendarID, &allDay); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		raw.Start, raw.End = start.String, end.String
		raw.Type = layout.EventType(strings.ToLower(typ))
		raw.AllDay = allDay

		e := raw.Event(s.loc)
		if e.Valid() && !r.Overlaps(e.Start, e.EffectiveEnd()) {
			continue
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return out, nil
}

// Calendars returns the rows of the calendars table.
func (s *Store) Calendars() []calendar.Calendar {
	rows, err := s.db.Query(`SELECT id, name, color, hidden FROM calendars ORDER BY id`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []calendar.Calendar
	for rows.Next() {
		var c calendar.Calendar
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Hidden); err != nil {
			return out
		}
		out = append(out, c)
	}
	return out
}

// SaveEvents upserts events. Times are stored as RFC 3339 text.
func (s *Store) SaveEvents(ctx context.Context, events []layout.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO events
		(id, title, start, "end", color, type, calendar_id, all_day) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		r := e.Raw()
		if _, err := stmt.ExecContext(ctx, r.ID, r.Title, nullable(r.Start), nullable(r.End),
			r.Color, string(r.Type), r.CalendarID, r.AllDay); err != nil {
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// SaveCalendars upserts calendars.
func (s *Store) SaveCalendars(ctx context.Context, cals []calendar.Calendar) error {
	for _, c := range cals {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO calendars (id, name, color, hidden) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Color, c.Hidden); err != nil {
			return fmt.Errorf("insert calendar %s: %w", c.ID, err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
