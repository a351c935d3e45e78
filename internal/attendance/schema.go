package attendance

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// Kind is the primitive kind a schema field must carry on the wire.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindTime:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Field describes one recognized field of an API version: its wire name,
// kind, whether a submission must carry it, and the constraints checked
// after coercion. assign and project bind the field to its slot on
// Candidate and Record so validation and response shaping both run off
// this descriptor.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// String constraints. Zero values mean unconstrained.
	MinLen  int
	MaxLen  int
	Pattern *regexp.Regexp

	// Inclusive integer bounds, consulted only when HasBounds is set.
	HasBounds bool
	Min, Max  int

	assign  func(*Candidate, any)
	project func(Record) any
}

// Schema is the complete recognized-field set of one API version. Adding a
// version to the service means declaring one of these, not writing another
// validator.
type Schema struct {
	Version int
	Fields  []Field
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Project shapes a stored record for this version's responses: the
// version's recognized fields plus the server-assigned id, created_at and
// updated_at. Fields introduced by later versions never leak into older
// responses.
func (s Schema) Project(r Record) map[string]any {
	out := map[string]any{
		"id":         r.ID,
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
	}
	for _, f := range s.Fields {
		out[f.Name] = f.project(r)
	}
	return out
}

// checkEvolution enforces additive evolution between versions: a newer
// schema may add fields or relax a required one to optional, but it may not
// remove a field, change a field's kind, or make an optional field
// required. Violations are programmer errors caught at startup.
func checkEvolution(older, newer Schema) error {
	for _, of := range older.Fields {
		nf, ok := newer.field(of.Name)
		if !ok {
			return fmt.Errorf("schema v%d removes field %q present in v%d", newer.Version, of.Name, older.Version)
		}
		if nf.Kind != of.Kind {
			return fmt.Errorf("schema v%d changes field %q from %s to %s", newer.Version, of.Name, of.Kind, nf.Kind)
		}
		if nf.Required && !of.Required {
			return fmt.Errorf("schema v%d makes optional field %q required", newer.Version, of.Name)
		}
	}
	return nil
}

var schemas = map[int]Schema{}

func mustRegister(s Schema) {
	if _, dup := schemas[s.Version]; dup {
		panic(fmt.Sprintf("schema v%d registered twice", s.Version))
	}
	for v, earlier := range schemas {
		if v >= s.Version {
			continue
		}
		if err := checkEvolution(earlier, s); err != nil {
			panic(err)
		}
	}
	schemas[s.Version] = s
}

// Versions returns every registered API version in ascending order.
func Versions() []int {
	out := make([]int, 0, len(schemas))
	for v := range schemas {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// SchemaFor returns the schema descriptor for one API version.
func SchemaFor(version int) (Schema, bool) {
	s, ok := schemas[version]
	return s, ok
}

// macPattern matches six colon-separated hex octets, either case.
var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// baseFields is the v1 field set. signalRequired is true for v1; v2 relaxed
// bluetooth_signal_strength to optional because newer client builds cannot
// always read RSSI on iOS.
func baseFields(signalRequired bool) []Field {
	return []Field{
		{
			Name: "student_id", Kind: KindString, Required: true, MinLen: 1, MaxLen: 50,
			assign:  func(c *Candidate, v any) { c.StudentID = v.(string) },
			project: func(r Record) any { return r.StudentID },
		},
		{
			Name: "device_mac", Kind: KindString, Required: true, Pattern: macPattern,
			assign:  func(c *Candidate, v any) { c.DeviceMAC = v.(string) },
			project: func(r Record) any { return r.DeviceMAC },
		},
		{
			Name: "timestamp", Kind: KindTime, Required: true,
			assign:  func(c *Candidate, v any) { c.Timestamp = v.(time.Time) },
			project: func(r Record) any { return r.Timestamp },
		},
		{
			Name: "bluetooth_signal_strength", Kind: KindInt, Required: signalRequired,
			HasBounds: true, Min: -100, Max: 0,
			assign:  func(c *Candidate, v any) { n := v.(int); c.BluetoothSignalStrength = &n },
			project: func(r Record) any { return r.BluetoothSignalStrength },
		},
		{
			Name: "status", Kind: KindString, Required: true, MinLen: 1,
			assign:  func(c *Candidate, v any) { c.Status = v.(string) },
			project: func(r Record) any { return r.Status },
		},
	}
}

func init() {
	mustRegister(Schema{Version: 1, Fields: baseFields(true)})

	v2 := append(baseFields(false),
		Field{
			Name: "location", Kind: KindString, Required: false, MaxLen: 100,
			assign:  func(c *Candidate, v any) { s := v.(string); c.Location = &s },
			project: func(r Record) any { return r.Location },
		},
		Field{
			Name: "attendance_mode", Kind: KindString, Required: false, MaxLen: 50,
			assign:  func(c *Candidate, v any) { s := v.(string); c.AttendanceMode = &s },
			project: func(r Record) any { return r.AttendanceMode },
		},
	)
	mustRegister(Schema{Version: 2, Fields: v2})
}
