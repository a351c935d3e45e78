package attendance

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are the accepted wire formats, tried in order. Layouts
// without a zone take naive timestamps, which the mobile clients have
// always sent in UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Validate checks an untyped JSON submission against this version's schema
// and returns a typed candidate ready for the store. Keys the schema does
// not recognize are dropped without error, so older and newer clients can
// talk to the same version. On failure the error lists every offending
// field at once.
func (s Schema) Validate(payload map[string]any) (Candidate, *ValidationError) {
	var c Candidate
	verr := &ValidationError{}

	for _, f := range s.Fields {
		raw, ok := payload[f.Name]
		if !ok || raw == nil {
			if f.Required {
				verr.add(f.Name, "field is required")
			}
			continue
		}
		val, msg := f.coerce(raw)
		if msg != "" {
			verr.add(f.Name, msg)
			continue
		}
		f.assign(&c, val)
	}

	if len(verr.Fields) > 0 {
		return Candidate{}, verr
	}
	return c, nil
}

// coerce converts a decoded JSON value to the field's kind and checks the
// field's constraints. It returns the converted value or a caller-facing
// message describing the problem.
func (f Field) coerce(raw any) (any, string) {
	switch f.Kind {
	case KindString:
		str, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		if len(str) < f.MinLen {
			if f.MinLen == 1 {
				return nil, "must not be empty"
			}
			return nil, "must be at least " + strconv.Itoa(f.MinLen) + " characters"
		}
		if f.MaxLen > 0 && len(str) > f.MaxLen {
			return nil, "must be at most " + strconv.Itoa(f.MaxLen) + " characters"
		}
		if f.Pattern != nil && !f.Pattern.MatchString(str) {
			return nil, "must be a MAC address like AA:BB:CC:DD:EE:FF"
		}
		return str, ""

	case KindInt:
		n, ok := toInt(raw)
		if !ok {
			return nil, "must be an integer"
		}
		if f.HasBounds && (n < f.Min || n > f.Max) {
			return nil, "must be between " + strconv.Itoa(f.Min) + " and " + strconv.Itoa(f.Max)
		}
		return n, ""

	case KindTime:
		t, ok := toTimestamp(raw)
		if !ok {
			return nil, "must be an ISO-8601 timestamp or epoch seconds"
		}
		return t, ""
	}
	return nil, "unsupported field kind"
}

// toInt accepts what JSON decoding can plausibly deliver for an integer:
// a number with no fractional part, or a string of digits. JSON numbers
// arrive from encoding/json as float64.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// toTimestamp accepts ISO-8601 strings, with or without zone or fractional
// seconds, and numeric epoch seconds. All results are normalized to UTC.
func toTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
	}
	return time.Time{}, false
}
