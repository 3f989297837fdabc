// Package ranking turns aggregated totals into an ordered report.
//
// Ordering: average DESC, then position ASC (deterministic).
// Averages are rounded half away from zero on their shortest decimal form,
// so 2.675 renders as "2.68" even though the float is slightly below it.
package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/okian/perfreport/internal/domain/aggregate"
	"github.com/okian/perfreport/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Places is the number of decimals in a formatted average.
const Places = 2

// Option applies a configuration option to Rank.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit keeps only the first n rows. Zero or negative keeps all rows.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// Rank orders the table by average performance and assigns 1-based ranks.
// An entry with a non-positive count or a non-finite average yields
// ErrInvalidAggregate.
func Rank(table aggregate.Table, opts ...Option) ([]model.ReportRow, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rows := make([]model.ReportRow, 0, len(table))
	for pos, agg := range table {
		if agg.Count <= 0 {
			return nil, model.InvalidAggregate(pos, agg.Count)
		}
		avg := agg.Average()
		if math.IsNaN(avg) || math.IsInf(avg, 0) {
			return nil, model.NonFiniteAverage(pos, avg)
		}
		rows = append(rows, model.ReportRow{Position: pos, Average: avg})
	}

	slices.SortFunc(rows, compare)

	if o.limit > 0 && len(rows) > o.limit {
		rows = rows[:o.limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Performance = Format(rows[i].Average)
	}
	return rows, nil
}

// compare returns a negative number when a ranks before b.
func compare(a, b model.ReportRow) int {
	if c := cmp.Compare(b.Average, a.Average); c != 0 {
		return c // higher average ranks earlier
	}
	return strings.Compare(a.Position, b.Position)
}

// Format renders v with exactly Places decimals.
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(Places)
}
