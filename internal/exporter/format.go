package exporter

import (
	"strings"

	"ppvcli/internal/dataprocessing"
)

// NoDataLabel is written into workbook cells whose value is null.
const NoDataLabel = "NoData"

// csvCell renders a report cell for CSV output. Null cells become empty
// fields so downstream tools can parse the column as numeric.
func csvCell(c dataprocessing.Cell) string {
	switch c.Kind {
	case dataprocessing.CellNumber:
		return c.Number.String()
	case dataprocessing.CellText:
		return c.Text
	default:
		return ""
	}
}

// workbookCell renders a report cell for an Excel sheet. Numbers keep their
// native type; null cells carry the NoData label.
func workbookCell(c dataprocessing.Cell) any {
	switch c.Kind {
	case dataprocessing.CellNumber:
		f, _ := c.Number.Float64()
		return f
	case dataprocessing.CellText:
		return c.Text
	default:
		return NoDataLabel
	}
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// slugFilename turns a table name into a safe lowercase file name.
func slugFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '/', r == '\\', r == '-':
			if s := b.String(); s != "" && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// sheetName trims a table name to Excel's 31 character sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
