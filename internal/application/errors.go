package application

import "errors"

var (
	// ErrForbidden is returned when the acting identity lacks permission for
	// an operation. The operation is refused locally, before any remote call.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrUnavailable is returned when the remote store is unreachable or
	// failed, as opposed to the request itself being invalid.
	ErrUnavailable = errors.New("application: remote store unavailable")
)

// Validation reasons recorded in ValidationError.FieldErrors.
const (
	// ReasonMissingResource is recorded when no turma was selected.
	ReasonMissingResource = "missing-resource"
	// ReasonBadInterval is recorded when the interval does not end strictly
	// after it starts.
	ReasonBadInterval = "bad-interval"
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, reason string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = reason
}

// ConflictError reports that a proposed reservation collides with an existing
// one. OccupiedBy carries the occupying professor's display name so the
// caller can tell the user who holds the slot.
type ConflictError struct {
	OccupiedBy string
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil {
		return ""
	}
	return "booking conflict: slot occupied by " + c.OccupiedBy
}
