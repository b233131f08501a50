// Package storage keeps resolved destination ids and the recent
// destination list in a local sqlite file. Search results are never
// stored.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rendis/hotelrank/internal/model"
)

const maxRecent = 10

// RecentEntry is one destination the user searched for.
type RecentEntry struct {
	Name       string
	SessionID  string
	SearchedAt time.Time
}

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS destinations (
		key TEXT PRIMARY KEY,
		dest_id TEXT NOT NULL,
		dest_type TEXT NOT NULL,
		name TEXT,
		label TEXT,
		lat REAL,
		lon REAL,
		resolved_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS recent_destinations (
		name TEXT PRIMARY KEY,
		session_id TEXT,
		searched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recent_searched_at ON recent_destinations(searched_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// CachedDestination returns the destination stored under key, if any.
func (s *Store) CachedDestination(ctx context.Context, key string) (model.Destination, bool, error) {
	var d model.Destination
	var name, label sql.NullString
	var lat, lon sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT dest_id, dest_type, name, label, lat, lon
		FROM destinations WHERE key = ?`, key,
	).Scan(&d.ID, &d.Type, &name, &label, &lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Destination{}, false, nil
	}
	if err != nil {
		return model.Destination{}, false, fmt.Errorf("reading destination %q: %w", key, err)
	}
	d.Name = name.String
	d.Label = label.String
	d.Lat = lat.Float64
	d.Lon = lon.Float64
	return d, true, nil
}

func (s *Store) SaveDestination(ctx context.Context, key string, d model.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO destinations (key, dest_id, dest_type, name, label, lat, lon, resolved_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			dest_id = excluded.dest_id,
			dest_type = excluded.dest_type,
			name = excluded.name,
			label = excluded.label,
			lat = excluded.lat,
			lon = excluded.lon,
			resolved_at = excluded.resolved_at`,
		key, d.ID, d.Type, d.Name, d.Label, d.Lat, d.Lon, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving destination %q: %w", key, err)
	}
	return nil
}

// RecordSearch moves name to the top of the recent list and trims it to
// the last maxRecent entries.
func (s *Store) RecordSearch(ctx context.Context, name, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recent_destinations (name, session_id, searched_at)
		VALUES (?,?,?)
		ON CONFLICT(name) DO UPDATE SET
			session_id = excluded.session_id,
			searched_at = excluded.searched_at`,
		name, sessionID, time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("recording search: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recent_destinations WHERE name NOT IN (
			SELECT name FROM recent_destinations ORDER BY searched_at DESC LIMIT ?
		)`, maxRecent,
	); err != nil {
		return fmt.Errorf("trimming recent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}
	return nil
}

// Recent lists recent destinations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RecentEntry, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, session_id, searched_at FROM recent_destinations
		ORDER BY searched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent: %w", err)
	}
	defer rows.Close()

	var out []RecentEntry
	for rows.Next() {
		var e RecentEntry
		var session sql.NullString
		var searchedAt int64
		if err := rows.Scan(&e.Name, &session, &searchedAt); err != nil {
			return nil, fmt.Errorf("scanning recent: %w", err)
		}
		e.SessionID = session.String
		e.SearchedAt = time.Unix(0, searchedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
