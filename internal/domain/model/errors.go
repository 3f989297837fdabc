package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for a report run. These allow errors.Is from callers.
var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrMalformedValue   = errors.New("malformed value")
	ErrInvalidAggregate = errors.New("invalid aggregate")
)

// DataError describes why a run was aborted and where.
type DataError struct {
	Kind   error  // one of the sentinel kinds above
	Source string // offending source, empty when unknown
	Line   int    // 1-based line, 0 when not tied to a line
	Value  string // offending raw value or key
	Err    error  // underlying cause, may be nil
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Source != "" {
		b.WriteString(": ")
		b.WriteString(e.Source)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *DataError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// SourceNotFound builds an ErrSourceNotFound error for src.
func SourceNotFound(src string, err error) *DataError {
	return &DataError{Kind: ErrSourceNotFound, Source: src, Err: err}
}

// MalformedValue builds an ErrMalformedValue error for a value at src:line.
func MalformedValue(src string, line int, value string, err error) *DataError {
	return &DataError{Kind: ErrMalformedValue, Source: src, Line: line, Value: value, Err: err}
}

// InvalidAggregate builds an ErrInvalidAggregate error for a position.
func InvalidAggregate(position string, count int) *DataError {
	return &DataError{Kind: ErrInvalidAggregate, Value: position, Err: fmt.Errorf("count %d is not positive", count)}
}

// NonFiniteAverage builds an ErrInvalidAggregate error for a position whose
// average is NaN or infinite.
func NonFiniteAverage(position string, avg float64) *DataError {
	return &DataError{Kind: ErrInvalidAggregate, Value: position, Err: fmt.Errorf("average %v is not finite", avg)}
}
