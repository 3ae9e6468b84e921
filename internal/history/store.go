// Package history persists an index of captured exchanges so past
// sessions can be listed and searched without reopening archives.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages capture history persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store at the given path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS captures (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id    TEXT,
			method        TEXT NOT NULL,
			url           TEXT NOT NULL,
			status_code   INTEGER,
			duration_ns   INTEGER,
			request_size  INTEGER,
			response_size INTEGER,
			archive_path  TEXT,
			timestamp     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_captures_timestamp ON captures(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_captures_url ON captures(url);
	`)
	if err != nil {
		return fmt.Errorf("creating captures table: %w", err)
	}
	return nil
}

// Add inserts a new history entry.
func (s *Store) Add(e Entry) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO captures (request_id, method, url, status_code, duration_ns, request_size, response_size, archive_path, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Method, e.URL, e.StatusCode, e.Duration.Nanoseconds(),
		e.RequestSize, e.ResponseSize, e.ArchivePath,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting capture: %w", err)
	}
	return result.LastInsertId()
}

// SetArchivePath records the archive file that holds the entry.
func (s *Store) SetArchivePath(id int64, path string) error {
	_, err := s.db.Exec("UPDATE captures SET archive_path = ? WHERE id = ?", path, id)
	if err != nil {
		return fmt.Errorf("updating archive path: %w", err)
	}
	return nil
}

// List returns the most recent entries.
func (s *Store) List(limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, request_id, method, url, status_code, duration_ns, request_size, response_size, archive_path, timestamp
		FROM captures
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing captures: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search searches history by URL substring.
func (s *Store) Search(query string) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, request_id, method, url, status_code, duration_ns, request_size, response_size, archive_path, timestamp
		FROM captures
		WHERE url LIKE ?
		ORDER BY timestamp DESC
		LIMIT 50`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("searching captures: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Clear removes all history entries.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM captures")
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationNs int64
		var ts string
		err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &e.URL, &e.StatusCode,
			&durationNs, &e.RequestSize, &e.ResponseSize, &e.ArchivePath, &ts)
		if err != nil {
			return nil, fmt.Errorf("scanning capture row: %w", err)
		}
		e.Duration = time.Duration(durationNs)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
