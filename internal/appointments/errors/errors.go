package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	// ErrStatusChanged is returned when a status update finds the
	// appointment no longer in the expected source status.
	ErrStatusChanged = errors.New("appointment status changed concurrently")

	// ErrLockLost is returned when a slot lock expired and was taken over
	// by another request before the holder committed.
	ErrLockLost = errors.New("appointment lock no longer held")
)
