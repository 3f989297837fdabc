// Package source provides record sources backed by delimited text files.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/okian/perfreport/internal/domain/aggregate"
	"github.com/okian/perfreport/internal/domain/model"
)

// Required column names.
const (
	ColumnPosition    = "position"
	ColumnPerformance = "performance"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Option applies a configuration option to a CSV source.
type Option func(*CSV)

// ValidDelimiter reports whether r can separate fields: it must be a valid
// rune other than NUL, the quote character, CR, LF or U+FFFD.
func ValidDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' &&
		utf8.ValidRune(r) && r != utf8.RuneError
}

// WithDelimiter sets the field delimiter. Invalid delimiters are ignored.
func WithDelimiter(r rune) Option {
	return func(c *CSV) {
		if ValidDelimiter(r) {
			c.delimiter = r
		}
	}
}

var _ aggregate.Source = (*CSV)(nil)

// CSV reads records from a file with a header row naming at least the
// position and performance columns. The file is opened lazily on iteration.
type CSV struct {
	path      string
	delimiter rune
}

// NewCSV creates a CSV source for path.
func NewCSV(path string, opts ...Option) *CSV {
	c := &CSV{path: path, delimiter: ','}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the file path.
func (c *CSV) Name() string { return c.path }

// Records yields one record per data row in file order. Iteration ends after
// the first error.
func (c *CSV) Records() iter.Seq2[model.Record, error] {
	return func(yield func(model.Record, error) bool) {
		f, err := os.Open(c.path)
		if err != nil {
			yield(model.Record{}, model.SourceNotFound(c.path, err))
			return
		}
		defer f.Close()

		br := bufio.NewReader(f)
		if prefix, _ := br.Peek(len(utf8BOM)); bytes.Equal(prefix, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM))
		}

		r := csv.NewReader(br)
		r.Comma = c.delimiter
		r.FieldsPerRecord = -1
		r.ReuseRecord = true

		header, err := r.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(model.Record{}, c.readError(err))
			return
		}
		posIdx, perfIdx, err := c.columns(header)
		if err != nil {
			yield(model.Record{}, err)
			return
		}
		need := max(posIdx, perfIdx) + 1

		for {
			fields, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(model.Record{}, c.readError(err))
				return
			}
			line, _ := r.FieldPos(0)
			if len(fields) < need {
				yield(model.Record{}, model.MalformedValue(c.path, line, strings.Join(fields, string(c.delimiter)),
					fmt.Errorf("row has %d fields, need %d", len(fields), need)))
				return
			}
			rec := model.Record{
				Source:      c.path,
				Line:        line,
				Position:    fields[posIdx],
				Performance: fields[perfIdx],
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// columns locates the required columns in the header. When a name repeats,
// the rightmost column wins.
func (c *CSV) columns(header []string) (int, int, error) {
	posIdx, perfIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnPosition:
			posIdx = i
		case ColumnPerformance:
			perfIdx = i
		}
	}
	var missing []string
	if posIdx < 0 {
		missing = append(missing, ColumnPosition)
	}
	if perfIdx < 0 {
		missing = append(missing, ColumnPerformance)
	}
	if len(missing) > 0 {
		return 0, 0, model.MalformedValue(c.path, 1, strings.Join(header, string(c.delimiter)),
			fmt.Errorf("missing column %s", strings.Join(missing, ", ")))
	}
	return posIdx, perfIdx, nil
}

// readError classifies a reader failure. Syntax errors are malformed input,
// anything else means the file cannot be read.
func (c *CSV) readError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return model.MalformedValue(c.path, perr.Line, "", perr.Err)
	}
	return model.SourceNotFound(c.path, fmt.Errorf("read: %w", err))
}

// FromPaths builds one CSV source per path, preserving order.
func FromPaths(paths []string, opts ...Option) []aggregate.Source {
	out := make([]aggregate.Source, len(paths))
	for i, p := range paths {
		out[i] = NewCSV(p, opts...)
	}
	return out
}
