package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ppvcli/internal/dataprocessing"
)

// WorkbookWriter exports a table set as a single Excel workbook, one sheet
// per table in set order.
type WorkbookWriter struct{}

func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// Write builds the workbook at path. Null cells are written as the NoData
// label so every sheet stays rectangular.
func (w *WorkbookWriter) Write(path string, set *dataprocessing.TableSet) error {
	if len(set.Order) == 0 {
		return fmt.Errorf("no tables to export")
	}

	slog.Info("Writing workbook",
		slog.String("path", path),
		slog.Int("sheets", len(set.Order)))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range set.Order {
		sheet := sheetName(name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, set.Tables[name]); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *dataprocessing.Table) error {
	header := make([]any, len(table.Columns))
	for j, c := range table.Columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		values := make([]any, len(row))
		for j, cell := range row {
			values[j] = workbookCell(cell)
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &values); err != nil {
			return err
		}
	}
	return nil
}
