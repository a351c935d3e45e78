package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository persists attendance records in the SQL backend. Queries stick
// to $n placeholders and RETURNING, which both the pgx and sqlite3 drivers
// accept, so the same code runs against either backend.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo over an opened database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, student_id, device_mac, timestamp, bluetooth_signal_strength, status, location, attendance_mode, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID,
		&rec.StudentID,
		&rec.DeviceMAC,
		&rec.Timestamp,
		&rec.BluetoothSignalStrength,
		&rec.Status,
		&rec.Location,
		&rec.AttendanceMode,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

// Insert persists a validated candidate and returns the stored record. The
// id comes from the backend's autoincrement sequence, so concurrent inserts
// never collide and the id of a deleted record is never handed out again.
func (r *Repository) Insert(ctx context.Context, cand Candidate) (Record, error) {
	rec := Record{
		StudentID:               cand.StudentID,
		DeviceMAC:               cand.DeviceMAC,
		Timestamp:               cand.Timestamp,
		BluetoothSignalStrength: cand.BluetoothSignalStrength,
		Status:                  cand.Status,
		Location:                cand.Location,
		AttendanceMode:          cand.AttendanceMode,
		CreatedAt:               time.Now().UTC(),
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records
			(student_id, device_mac, timestamp, bluetooth_signal_strength, status, location, attendance_mode, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, rec.StudentID, rec.DeviceMAC, rec.Timestamp, rec.BluetoothSignalStrength, rec.Status, rec.Location, rec.AttendanceMode, rec.CreatedAt)
	if err := row.Scan(&rec.ID); err != nil {
		return Record{}, fmt.Errorf("insert attendance record: %w", err)
	}
	return rec, nil
}

// Get returns a single record by id, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get attendance record: %w", err)
	}
	return rec, nil
}

// ListFilter narrows List to records matching every set field.
type ListFilter struct {
	StudentID string
}

// List returns the total size of the filtered set and one page of it,
// ordered by ascending id so pages walked with a growing skip reproduce
// insertion order. total is counted before skip and limit are applied,
// which is what the dashboard needs to render page controls.
func (r *Repository) List(ctx context.Context, filter ListFilter, skip, limit int) (int, []Record, error) {
	if limit <= 0 {
		return 0, nil, fmt.Errorf("list attendance records: limit must be positive, got %d", limit)
	}
	if skip < 0 {
		return 0, nil, fmt.Errorf("list attendance records: skip must not be negative, got %d", skip)
	}

	where := ""
	args := []any{}
	if filter.StudentID != "" {
		where = " WHERE student_id = $1"
		args = append(args, filter.StudentID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_records`+where, args...).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("count attendance records: %w", err)
	}

	query := `SELECT ` + recordColumns + ` FROM attendance_records` + where +
		" ORDER BY id ASC LIMIT $" + itoa(len(args)+1) + " OFFSET $" + itoa(len(args)+2)
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return 0, nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("list attendance records: %w", err)
	}
	return total, records, nil
}

// Delete removes a record by id. Deleting an id that is already gone is not
// an error: the bool reports whether a row was actually removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete attendance record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance record: %w", err)
	}
	return n > 0, nil
}

func itoa(i int) string { return fmt.Sprintf("%d", i) }
