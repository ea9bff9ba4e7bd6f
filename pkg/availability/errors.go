package availability

import "errors"

var (
	ErrInvalidWindow = errors.New("invalid working window")

	ErrInvalidDuration = errors.New("duration must be positive")

	ErrInvalidGranularity = errors.New("slot granularity must be positive")

	ErrInvalidClock = errors.New("invalid clock time")

	ErrInvalidDate = errors.New("invalid date")
)
