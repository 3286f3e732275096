package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing entities.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicate marks a create that collided with an existing natural key.
	ErrDuplicate = errors.New("duplicate")
)
