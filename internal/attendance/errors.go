package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a record id does not exist in the store.
// Callers test for it with errors.Is.
var ErrNotFound = errors.New("attendance record not found")

// FieldError names one offending field of a rejected submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field error found in a submission, not just
// the first, so the mobile client can show the complete list at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}
