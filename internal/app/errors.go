package app

import "errors"

var (
	// ErrInvalidDateRange is returned when the to date precedes the from date.
	ErrInvalidDateRange = errors.New("invalid given datetime: to date is before from date")

	// ErrIntervalMismatch is returned when resuming a file saved with another interval.
	ErrIntervalMismatch = errors.New("existing data does not match the requested interval")

	// ErrInvalidConfig wraps environment and override validation failures.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidOptions wraps option validation failures.
	ErrInvalidOptions = errors.New("invalid options")
)
