package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/perfreport/internal/domain/model"
)

// CSV renders the rows as comma separated values with a header line.
// The title is not part of the output.
type CSV struct{}

// Render implements Renderer.
func (CSV) Render(w io.Writer, report *model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	for _, r := range report.Rows {
		if err := cw.Write(cells(r)); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
