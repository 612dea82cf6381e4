package db

import "errors"

var (
	// ErrNotFound is returned when a record with the requested id does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint
	ErrDuplicate = errors.New("duplicate record")
)
