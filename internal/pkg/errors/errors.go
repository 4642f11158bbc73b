package errors

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks input rejected before any side effect.
	ErrInvalidArgument = errors.New("invalid argument")
)
