package errors

import "errors"

var (
	ErrNotFound = errors.New("favorite not found")

	ErrAlreadyExists = errors.New("barber already in favorites")
)
