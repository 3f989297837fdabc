package render

import "errors"

// Sentinel kinds for render errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrRender        = errors.New("render report failed")
)
