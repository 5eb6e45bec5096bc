package database

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrentModification is returned when a version-guarded update
	// matched zero rows: another writer got there first.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrAlreadyCheckedOut is returned when a checkout transition targets
	// a booking that is no longer active.
	ErrAlreadyCheckedOut = errors.New("booking already checked out")

	// ErrDuplicateRoom is returned when a room number already exists.
	ErrDuplicateRoom = errors.New("room number already exists")
)
