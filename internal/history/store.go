// internal/history/store.go
package history

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Limit is how many entries are kept per server
const Limit = 500

// Store persists the fetch history in SQLite
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating it if needed
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS fetch_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			server TEXT NOT NULL,
			query TEXT NOT NULL,
			page INTEGER NOT NULL,
			page_size INTEGER NOT NULL,
			order_by TEXT NOT NULL DEFAULT '',
			fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			total_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_fetch_history_server ON fetch_history(server);
		CREATE INDEX IF NOT EXISTS idx_fetch_history_fetched_at ON fetch_history(fetched_at);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a fetch and prunes entries beyond Limit for its server
func (s *Store) Add(entry *Entry) error {
	res, err := s.db.Exec(`
		INSERT INTO fetch_history (server, query, page, page_size, order_by, fetched_at, duration_ms, row_count, total_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Server,
		entry.Query,
		entry.Page,
		entry.PageSize,
		entry.OrderBy,
		entry.FetchedAt,
		entry.DurationMs,
		entry.RowCount,
		entry.TotalCount,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return s.enforceLimit(entry.Server, Limit)
}

// enforceLimit keeps only the most recent entries per server
func (s *Store) enforceLimit(server string, limit int) error {
	_, err := s.db.Exec(`
		DELETE FROM fetch_history
		WHERE server = ?
		AND id NOT IN (
			SELECT id FROM fetch_history
			WHERE server = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`, server, server, limit)
	return err
}

// List returns entries for a server, newest first
func (s *Store) List(server string, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, server, query, page, page_size, order_by, fetched_at, duration_ms, row_count, total_count, status, error_message
		FROM fetch_history
		WHERE server = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, server, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Server, &e.Query, &e.Page, &e.PageSize, &e.OrderBy,
			&e.FetchedAt, &e.DurationMs, &e.RowCount, &e.TotalCount, &e.Status, &e.ErrorMessage); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns how many entries a server has
func (s *Store) Count(server string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM fetch_history WHERE server = ?`, server).Scan(&count)
	return count, err
}

// Clear removes every entry of a server
func (s *Store) Clear(server string) error {
	_, err := s.db.Exec(`DELETE FROM fetch_history WHERE server = ?`, server)
	return err
}
