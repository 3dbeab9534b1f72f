package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ppvcli/internal/config"
	"ppvcli/internal/dataprocessing"
)

// CSVWriter exports report tables as CSV files under the configured reports
// directory.
type CSVWriter struct {
	paths *config.PathsConfig
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.PathsConfig) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteTableSet writes every table in the set, plus a companion mask file
// for tables that carry one. Returns the paths written.
func (w *CSVWriter) WriteTableSet(set *dataprocessing.TableSet) ([]string, error) {
	var written []string
	for _, name := range set.Order {
		path, err := w.WriteTable(name, set.Tables[name])
		if err != nil {
			return written, err
		}
		written = append(written, path)

		if mask := set.Masks[name]; mask != nil {
			path, err := w.writeMask(name, mask)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// WriteTable writes one report table to "<slug>.csv" under the reports
// directory and returns the path. An absolute name is used verbatim.
func (w *CSVWriter) WriteTable(name string, table *dataprocessing.Table) (string, error) {
	records := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = csvCell(cell)
		}
		records[i] = record
	}
	fileName := name
	if !filepath.IsAbs(name) {
		fileName = slugFilename(name) + ".csv"
	}
	return w.writeFile(fileName, table.Columns, records)
}

// writeMask writes a fill mask to "<slug>_mask.csv" as true/false cells.
func (w *CSVWriter) writeMask(name string, mask *dataprocessing.Mask) (string, error) {
	records := make([][]string, len(mask.Rows))
	for i, row := range mask.Rows {
		record := make([]string, len(row))
		for j, filled := range row {
			record[j] = formatBool(filled)
		}
		records[i] = record
	}
	return w.writeFile(slugFilename(name)+"_mask.csv", mask.Columns, records)
}

func (w *CSVWriter) writeFile(fileName string, headers []string, records [][]string) (string, error) {
	fullPath := w.resolvePath(fileName)

	slog.Info("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM helps Excel recognize the encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return fullPath, writer.Error()
}

func (w *CSVWriter) resolvePath(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	if w.paths == nil {
		return fileName
	}
	return w.paths.GetReportPath(fileName)
}
