package attendance

import "time"

// Record is one stored attendance observation: a student's device was seen
// over Bluetooth at some moment with some signal strength. The struct is the
// union of every field any API version has introduced; versions that predate
// a field simply leave it nil.
type Record struct {
	ID                      int64      `json:"id"`
	StudentID               string     `json:"student_id"`
	DeviceMAC               string     `json:"device_mac"`
	Timestamp               time.Time  `json:"timestamp"`
	BluetoothSignalStrength *int       `json:"bluetooth_signal_strength"`
	Status                  string     `json:"status"`
	Location                *string    `json:"location,omitempty"`
	AttendanceMode          *string    `json:"attendance_mode,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               *time.Time `json:"updated_at"`
}

// Candidate is a submission that passed schema validation but has not been
// persisted yet. The store assigns ID and CreatedAt on insert.
type Candidate struct {
	StudentID               string
	DeviceMAC               string
	Timestamp               time.Time
	BluetoothSignalStrength *int
	Status                  string
	Location                *string
	AttendanceMode          *string
}
