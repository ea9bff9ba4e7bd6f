package errors

import "errors"

var (
	ErrNotFound = errors.New("barber not found")

	ErrInvalidID = errors.New("invalid barber ID format")

	ErrEmailTaken = errors.New("barber email already registered")

	ErrServiceNotFound = errors.New("service offering not found")

	ErrInvalidServiceID = errors.New("invalid service offering ID format")
)
