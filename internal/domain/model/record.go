// Package model contains domain models passed between layers.
package model

// Record is one input row observed by the aggregator.
// Performance stays raw so that conversion errors can name the offending value.
type Record struct {
	Source      string // name of the record source, usually a file path
	Line        int    // 1-based line within the source
	Position    string // category key, e.g. a job title
	Performance string // raw numeric score
}

// Aggregate is the running count and sum for a single position.
type Aggregate struct {
	Count int
	Total float64
}

// Average returns Total divided by Count. Callers must check Count first.
func (a Aggregate) Average() float64 {
	return a.Total / float64(a.Count)
}

// ReportRow is one ranked line of the final report.
type ReportRow struct {
	Rank        int     `json:"id"`
	Position    string  `json:"position"`
	Average     float64 `json:"-"`
	Performance string  `json:"performance"` // Average with exactly two decimals
}

// Report is the finished, immutable output of a run.
type Report struct {
	Title   string      `json:"title"`
	RunID   string      `json:"run_id"`
	Rows    []ReportRow `json:"rows"`
	Sources int         `json:"-"`
	Records int         `json:"-"`
}
