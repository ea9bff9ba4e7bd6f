package errors

import "errors"

var (
	ErrWindowNotFound = errors.New("working window not found")
)
