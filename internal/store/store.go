// Package store persists surveys in a local SQLite database. The renderer
// itself keeps no persisted state; this store exists so a walk id can be
// resolved to a renderable report.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"riverwalk/internal/survey"
)

var ErrNotFound = errors.New("survey not found")

const schema = `
CREATE TABLE IF NOT EXISTS surveys (
	walk       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite handles one writer at a time; a second connection would just
	// trade busy errors for lock contention.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save validates and upserts a survey keyed by its walk id.
func (s *Store) Save(ctx context.Context, sv survey.Survey) error {
	if err := sv.Validate(); err != nil {
		return fmt.Errorf("invalid survey: %w", err)
	}
	data, err := json.Marshal(sv)
	if err != nil {
		return fmt.Errorf("encode survey: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO surveys (walk, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(walk) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sv.Walk, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save survey %s: %w", sv.Walk, err)
	}
	return nil
}

// Survey loads the survey for a walk id, or ErrNotFound.
func (s *Store) Survey(ctx context.Context, walk string) (survey.Survey, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM surveys WHERE walk = ?`, walk).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return survey.Survey{}, ErrNotFound
	}
	if err != nil {
		return survey.Survey{}, fmt.Errorf("load survey %s: %w", walk, err)
	}
	var sv survey.Survey
	if err := json.Unmarshal([]byte(data), &sv); err != nil {
		return survey.Survey{}, fmt.Errorf("decode survey %s: %w", walk, err)
	}
	return sv, nil
}

// ListWalks returns the known walk ids, most recently updated first.
func (s *Store) ListWalks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT walk FROM surveys ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list walks: %w", err)
	}
	defer rows.Close()

	var walks []string
	for rows.Next() {
		var walk string
		if err := rows.Scan(&walk); err != nil {
			return nil, err
		}
		walks = append(walks, walk)
	}
	return walks, rows.Err()
}
