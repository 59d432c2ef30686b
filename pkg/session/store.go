// Package session persists skimming state between runs: which videos were
// opened recently, and where skimming stopped in each, so a reopened clip
// resumes at the same frame and frame range.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// State is the resumable position of one video.
type State struct {
	Path       string
	LastFrame  int
	RangeMin   int
	RangeMax   int
	LastOpened time.Time
}

// Store is the sqlite-backed session database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the session database location under the user config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vskim", "session.db")
}

// Open opens or creates the session database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("session: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: init schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clips (
		path TEXT PRIMARY KEY,
		last_frame INTEGER NOT NULL DEFAULT 0,
		range_min INTEGER NOT NULL DEFAULT 0,
		range_max INTEGER NOT NULL DEFAULT 0,
		last_opened DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clips_opened ON clips(last_opened);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Touch records st as the latest state of its video.
func (s *Store) Touch(st State) error {
	if st.LastOpened.IsZero() {
		st.LastOpened = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO clips (path, last_frame, range_min, range_max, last_opened)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			last_frame = excluded.last_frame,
			range_min = excluded.range_min,
			range_max = excluded.range_max,
			last_opened = excluded.last_opened
	`, st.Path, st.LastFrame, st.RangeMin, st.RangeMax, st.LastOpened)
	return err
}

// Resume returns the stored state for path, reporting whether one exists.
func (s *Store) Resume(path string) (State, bool, error) {
	var st State
	err := s.db.QueryRow(`
		SELECT path, last_frame, range_min, range_max, last_opened
		FROM clips WHERE path = ?
	`, path).Scan(&st.Path, &st.LastFrame, &st.RangeMin, &st.RangeMax, &st.LastOpened)
	if err == sql.ErrNoRows {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}
	return st, true, nil
}

// Recent returns up to limit states, most recently opened first.
func (s *Store) Recent(limit int) ([]State, error) {
	rows, err := s.db.Query(`
		SELECT path, last_frame, range_min, range_max, last_opened
		FROM clips ORDER BY last_opened DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []State
	for rows.Next() {
		var st State
		if err := rows.Scan(&st.Path, &st.LastFrame, &st.RangeMin, &st.RangeMax, &st.LastOpened); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
