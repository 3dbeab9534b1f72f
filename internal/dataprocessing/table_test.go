package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "ppvcli/internal/errors"
)

func TestReadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := "Part Number,Amount\nP-1,100\nP-2,200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Part Number", "Amount"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "P-2", table.Cell(1, 0))
}

func TestReadTable_CSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Part Number,Amount\nP-1,100\n")...)
	require.NoError(t, os.WriteFile(path, content, 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "Part Number", table.Headers[0])
}

func TestReadTable_RaggedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B,C\n1,2\n"), 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, "2", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(0, 2))
}

func TestReadTable_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Part Number", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"P-1", 100}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Part Number", "Amount"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "P-1", table.Cell(0, 0))
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	_, err := ReadTable("ledger.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeNotFound, appErr.Type)
}
