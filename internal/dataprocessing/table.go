package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"ppvcli/internal/errors"
)

// RawTable is an in-memory tabular file: one header row plus data rows.
// All values are kept as strings so identifier-like columns (part numbers,
// vendor numbers) preserve leading zeros.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col), or "" when the row is ragged.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// ReadTable reads a tabular file into memory. Excel workbooks are read from
// their first sheet only; CSV files may carry a UTF-8 BOM.
func ReadTable(path string) (*RawTable, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm", ".csv":
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported file type: %s", ext))
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(path)
		}
		return nil, errors.NewStorageError("failed to stat input file", err)
	}

	if ext == ".csv" {
		return readCSV(path)
	}
	return readWorkbook(path)
}

func readWorkbook(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParsingError("failed to read sheet rows", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("workbook sheet is empty", nil)
	}

	return newRawTable(rows), nil
}

func readCSV(path string) (*RawTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read CSV file", err)
	}

	// Strip UTF-8 BOM so the first header matches its aliases
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse CSV file", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("CSV file is empty", nil)
	}

	return newRawTable(rows), nil
}

func newRawTable(rows [][]string) *RawTable {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &RawTable{Headers: headers, Rows: rows[1:]}
}
