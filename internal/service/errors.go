package service

import "errors"

var (
	// ErrNotFound reports an operation addressed at a list, section,
	// component or catalog reference that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadFormat reports an import payload that is not a valid file of
	// the expected shape. Nothing is merged when it is returned.
	ErrBadFormat = errors.New("invalid import format")
)
