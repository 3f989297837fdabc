// Package aggregate folds record sources into per-position running totals.
package aggregate

import (
	"errors"
	"iter"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/okian/perfreport/internal/domain/model"
)

var (
	errNotFinite      = errors.New("value is not finite")
	errTotalOverflows = errors.New("running total is not finite")
)

// Table maps a position to its aggregate. Every entry has Count >= 1 when
// produced by an Aggregator.
type Table map[string]model.Aggregate

// Source is an ordered sequence of records with a name used in errors.
// A source that cannot be opened or read yields a non-nil error.
type Source interface {
	Name() string
	Records() iter.Seq2[model.Record, error]
}

// Aggregator accumulates records into a Table. The zero value is not usable;
// use New.
type Aggregator struct {
	table   Table
	records int
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{table: make(Table)}
}

// Add folds a single record into the table.
func (a *Aggregator) Add(rec model.Record) error {
	if rec.Position == "" {
		return model.MalformedValue(rec.Source, rec.Line, rec.Position, errors.New("empty position"))
	}
	v, err := parsePerformance(rec.Performance)
	if err != nil {
		return model.MalformedValue(rec.Source, rec.Line, rec.Performance, err)
	}

	agg := a.table[rec.Position]
	total := agg.Total + v
	if !finite(total) {
		return model.MalformedValue(rec.Source, rec.Line, rec.Performance, errTotalOverflows)
	}
	agg.Count++
	agg.Total = total
	a.table[rec.Position] = agg
	a.records++
	return nil
}

// AddSource folds every record of src in order and returns how many were added.
// It stops at the first error.
func (a *Aggregator) AddSource(src Source) (int, error) {
	n := 0
	for rec, err := range src.Records() {
		if err != nil {
			return n, err
		}
		if err := a.Add(rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Table returns a copy of the current table.
func (a *Aggregator) Table() Table {
	return maps.Clone(a.table)
}

// Records returns the number of records folded so far.
func (a *Aggregator) Records() int { return a.records }

// Aggregate folds all sources in order. On error the partial table is
// discarded and nil is returned.
func Aggregate(sources ...Source) (Table, error) {
	a := New()
	for _, src := range sources {
		if _, err := a.AddSource(src); err != nil {
			return nil, err
		}
	}
	return a.table, nil
}

func parsePerformance(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	if !finite(v) {
		return 0, errNotFinite
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
