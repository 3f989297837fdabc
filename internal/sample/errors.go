package sample

import "errors"

var (
	// ErrInvalidConfig is returned when generation parameters are out of range.
	ErrInvalidConfig = errors.New("invalid sample config")
	// ErrWriteSample is returned when a sample file cannot be written.
	ErrWriteSample = errors.New("failed to write sample")
)
