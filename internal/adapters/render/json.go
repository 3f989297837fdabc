package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/perfreport/internal/domain/model"
)

// JSON renders the report as a single JSON document.
type JSON struct {
	Indent string
}

// Render implements Renderer.
func (j JSON) Render(w io.Writer, report *model.Report) error {
	out := *report
	if out.Rows == nil {
		out.Rows = []model.ReportRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
