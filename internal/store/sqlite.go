package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite wraps sql.DB for the embedded backend used by local runs and
// tests. It exposes the same attendance schema as Postgres so the
// repository code does not care which one it is talking to.
type SQLite struct {
	Client *sql.DB
}

// NewSQLite opens the database file, creating it and its directory if
// needed, and ensures the attendance schema exists.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite takes one writer at a time; more connections would only turn
	// concurrent inserts into SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLite{Client: db}, nil
}

// migrateSQLite applies the schema. AUTOINCREMENT keeps the id sequence
// monotonic even across deletes, matching BIGSERIAL on Postgres.
func migrateSQLite(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attendance_records (
			id                        INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id                TEXT NOT NULL,
			device_mac                TEXT NOT NULL,
			timestamp                 TIMESTAMP NOT NULL,
			bluetooth_signal_strength INTEGER,
			status                    TEXT NOT NULL,
			location                  TEXT,
			attendance_mode           TEXT,
			created_at                TIMESTAMP NOT NULL,
			updated_at                TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attendance_records_student_id ON attendance_records (student_id);
	`)
	return err
}

// Close closes the underlying connection.
func (s *SQLite) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
