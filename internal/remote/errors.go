package remote

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	// Every other repository error is a transport failure.
	ErrNotFound = errors.New("remote: not found")
)
