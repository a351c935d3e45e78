package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_Ascending(t *testing.T) {
	versions := Versions()
	require.Equal(t, []int{1, 2}, versions)
}

func TestSchemaFor_UnknownVersion(t *testing.T) {
	_, ok := SchemaFor(99)
	assert.False(t, ok)
}

func TestCheckEvolution_RejectsFieldRemoval(t *testing.T) {
	older := Schema{Version: 1, Fields: []Field{{Name: "status", Kind: KindString, Required: true}}}
	newer := Schema{Version: 2, Fields: []Field{}}
	err := checkEvolution(older, newer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `removes field "status"`)
}

func TestCheckEvolution_RejectsKindChange(t *testing.T) {
	older := Schema{Version: 1, Fields: []Field{{Name: "timestamp", Kind: KindTime, Required: true}}}
	newer := Schema{Version: 2, Fields: []Field{{Name: "timestamp", Kind: KindString, Required: true}}}
	err := checkEvolution(older, newer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from timestamp to string")
}

func TestCheckEvolution_RejectsOptionalBecomingRequired(t *testing.T) {
	older := Schema{Version: 1, Fields: []Field{{Name: "location", Kind: KindString}}}
	newer := Schema{Version: 2, Fields: []Field{{Name: "location", Kind: KindString, Required: true}}}
	err := checkEvolution(older, newer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `makes optional field "location" required`)
}

func TestCheckEvolution_AllowsAdditionAndRelaxation(t *testing.T) {
	older := Schema{Version: 1, Fields: []Field{{Name: "status", Kind: KindString, Required: true}}}
	newer := Schema{Version: 2, Fields: []Field{
		{Name: "status", Kind: KindString}, // required -> optional is fine
		{Name: "location", Kind: KindString},
	}}
	assert.NoError(t, checkEvolution(older, newer))
}

func TestRegisteredSchemasEvolveAdditively(t *testing.T) {
	// The live registry must satisfy its own guard: every later version
	// against every earlier one.
	versions := Versions()
	for i, older := range versions {
		for _, newer := range versions[i+1:] {
			o, _ := SchemaFor(older)
			n, _ := SchemaFor(newer)
			assert.NoError(t, checkEvolution(o, n))
		}
	}
}

func TestProject_V1OmitsLaterFields(t *testing.T) {
	dbm := -45
	loc := "lab-3"
	now := time.Date(2025, 11, 8, 10, 30, 0, 0, time.UTC)
	rec := Record{
		ID:                      7,
		StudentID:               "STU1",
		DeviceMAC:               "AA:BB:CC:DD:EE:FF",
		Timestamp:               now,
		BluetoothSignalStrength: &dbm,
		Status:                  "present",
		Location:                &loc,
		CreatedAt:               now,
	}

	v1, _ := SchemaFor(1)
	out := v1.Project(rec)
	assert.Equal(t, int64(7), out["id"])
	assert.Equal(t, "STU1", out["student_id"])
	assert.NotContains(t, out, "location")
	assert.NotContains(t, out, "attendance_mode")
	assert.Nil(t, out["updated_at"])

	v2, _ := SchemaFor(2)
	out = v2.Project(rec)
	assert.Equal(t, &loc, out["location"])
	assert.Contains(t, out, "attendance_mode")
}
