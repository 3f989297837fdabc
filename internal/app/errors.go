package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoSources      = errors.New("no input sources given")
	ErrBinaryToStdout = errors.New("binary format needs an output file")
	ErrWriteOutput    = errors.New("write report output failed")
)
