package render

import (
	"fmt"
	"io"

	"github.com/okian/perfreport/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Workbook layout.
const (
	SheetName    = "Report"
	titleRow     = 1
	headerRow    = 3
	firstDataRow = 4
)

// XLSX renders the report as an Excel workbook with a single sheet.
type XLSX struct{}

// Render implements Renderer.
func (XLSX) Render(w io.Writer, report *model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := setRow(f, titleRow, []any{report.Title}); err != nil {
		return err
	}
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := setRow(f, headerRow, header); err != nil {
		return err
	}
	for i, r := range report.Rows {
		if err := setRow(f, firstDataRow+i, []any{r.Rank, r.Position, r.Performance}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}
