package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx. This is the deployment backend;
// SQLite covers local runs and tests.
type DB struct {
	Client *sql.DB
}

// NewDB connects to Postgres with sane pool defaults and ensures the
// attendance schema exists.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migratePostgres(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &DB{Client: db}, nil
}

// migratePostgres applies the schema. BIGSERIAL draws ids from a sequence
// that never rewinds, so the id of a deleted record is never reissued.
func migratePostgres(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attendance_records (
			id                        BIGSERIAL PRIMARY KEY,
			student_id                TEXT NOT NULL,
			device_mac                TEXT NOT NULL,
			timestamp                 TIMESTAMPTZ NOT NULL,
			bluetooth_signal_strength INTEGER,
			status                    TEXT NOT NULL,
			location                  TEXT,
			attendance_mode           TEXT,
			created_at                TIMESTAMPTZ NOT NULL,
			updated_at                TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_attendance_records_student_id ON attendance_records (student_id);
	`)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
