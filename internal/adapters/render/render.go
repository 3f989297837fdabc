// Package render writes a finished report in one of several output formats.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/perfreport/internal/domain/model"
)

// Output formats.
const (
	FormatGrid = "grid"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Header is the column header shared by every format.
var Header = []string{"id", "position", "performance"}

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, report *model.Report) error
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatGrid, FormatCSV, FormatJSON, FormatXLSX}
}

// New returns the renderer for format. Format names are case-insensitive.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatGrid:
		return Grid{}, nil
	case FormatCSV:
		return CSV{}, nil
	case FormatJSON:
		return JSON{Indent: "  "}, nil
	case FormatXLSX:
		return XLSX{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// IsBinary reports whether format produces non-text output.
func IsBinary(format string) bool {
	return strings.ToLower(strings.TrimSpace(format)) == FormatXLSX
}

// cells converts a row into its display strings in Header order.
func cells(r model.ReportRow) []string {
	return []string{strconv.Itoa(r.Rank), r.Position, r.Performance}
}
