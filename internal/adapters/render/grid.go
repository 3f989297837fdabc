package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/okian/perfreport/internal/domain/model"
	"golang.org/x/text/width"
)

type align int

const (
	alignLeft align = iota
	alignRight
)

// columnAlign holds the alignment of each Header column.
var columnAlign = []align{alignRight, alignLeft, alignRight}

// Grid renders a bordered text table preceded by the report title.
//
//	+------+-----------+---------------+
//	|   id | position  |   performance |
//	+======+===========+===============+
//	|    1 | Backend   |          4.85 |
//	+------+-----------+---------------+
type Grid struct{}

// Render implements Renderer.
func (Grid) Render(w io.Writer, report *model.Report) error {
	body := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		body[i] = cells(r)
	}

	widths := make([]int, len(Header))
	for i, h := range Header {
		widths[i] = displayWidth(h)
	}
	for _, row := range body {
		for i, c := range row {
			widths[i] = max(widths[i], displayWidth(c))
		}
	}

	bw := bufio.NewWriter(w)
	if report.Title != "" {
		fmt.Fprintf(bw, "%s\n\n", report.Title)
	}
	writeRule(bw, widths, '-')
	writeRow(bw, widths, Header)
	writeRule(bw, widths, '=')
	for _, row := range body {
		writeRow(bw, widths, row)
		writeRule(bw, widths, '-')
	}
	if len(body) == 0 {
		writeRule(bw, widths, '-')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func writeRule(w *bufio.Writer, widths []int, fill byte) {
	w.WriteByte('+')
	for _, n := range widths {
		w.WriteString(strings.Repeat(string(fill), n+2))
		w.WriteByte('+')
	}
	w.WriteByte('\n')
}

func writeRow(w *bufio.Writer, widths []int, row []string) {
	w.WriteByte('|')
	for i, c := range row {
		pad := strings.Repeat(" ", widths[i]-displayWidth(c))
		w.WriteByte(' ')
		if columnAlign[i] == alignRight {
			w.WriteString(pad)
			w.WriteString(c)
		} else {
			w.WriteString(c)
			w.WriteString(pad)
		}
		w.WriteString(" |")
	}
	w.WriteByte('\n')
}

// displayWidth returns the number of terminal cells s occupies.
// East Asian wide and fullwidth runes take two cells.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
