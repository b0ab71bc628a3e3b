package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// ERROR TAXONOMY
// ============================================================================
// Validation problems are never errors — they are strings inside a
// ValidationResult. Everything below is a construction failure: raised by a
// strategy or the backend, caught once at the render boundary, and converted
// into an error figure there.
// ============================================================================

// DataError means no usable data survived cleaning for the requested kind
// (or the input dataset was unusable to begin with).
type DataError struct {
	Reason string
}

func (e *DataError) Error() string { return e.Reason }

// dataErrf builds a DataError from a format string.
func dataErrf(format string, args ...interface{}) error {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownKindError means dispatch found neither a bespoke strategy nor a
// backend capability for the requested kind. The message enumerates what the
// backend can draw.
type UnknownKindError struct {
	Kind         string
	Capabilities []string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown or unsupported chart kind %q; available: %s",
		e.Kind, strings.Join(e.Capabilities, ", "))
}

// BackendError wraps a failure propagated from the plot backend. The render
// path treats it exactly like a DataError.
type BackendError struct {
	Kind string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend failed for %q: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
