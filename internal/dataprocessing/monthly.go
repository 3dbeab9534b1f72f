package dataprocessing

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTables bundles the month-axis reports derived from one ledger.
type MonthlyTables struct {
	// Summary is the mean unit price per identity per month, forward-filled.
	Summary *Table
	// SummaryMask marks the summary cells synthesized by forward-fill.
	SummaryMask *Mask
	// MoM is the month-over-month fractional price change.
	MoM *Table
	// MoMMask marks MoM cells with no defined change.
	MoMMask *Mask
	// Volume is the total quantity per identity per month.
	Volume *Table
}

// BuildMonthlyTables derives the monthly price summary, month-over-month
// change and monthly volume from the ledger. Returns nil when no row carries
// a parseable posting date.
func BuildMonthlyTables(ledger *Ledger, view IdentityView) *MonthlyTables {
	first, last, ok := monthSpan(ledger.Rows)
	if !ok {
		return nil
	}
	months := monthsBetween(first, last)
	periodOf := monthIndexer(months)

	priceCols := PriceIdentityColumns(view)
	priceRows := buildPivot(ledger.Rows, priceCols, len(months), periodOf,
		func(r *LedgerRow) decimal.NullDecimal { return r.UnitPrice }, pivotMean)

	summary, summaryMask := assembleFilled(priceCols, months, priceRows)
	mom, momMask := assembleMoM(priceCols, months, priceRows)

	volumeCols := VolumeIdentityColumns(view)
	volumeRows := buildPivot(ledger.Rows, volumeCols, len(months), periodOf,
		func(r *LedgerRow) decimal.NullDecimal { return r.Quantity }, pivotSum)
	volume := assemblePlain(volumeCols, months, volumeRows)

	return &MonthlyTables{
		Summary:     summary,
		SummaryMask: summaryMask,
		MoM:         mom,
		MoMMask:     momMask,
		Volume:      volume,
	}
}

// monthIndexer maps a row's posting month onto the dense axis, or -1 for
// undated rows.
func monthIndexer(months []time.Time) func(*LedgerRow) int {
	index := make(map[time.Time]int, len(months))
	for i, m := range months {
		index[m] = i
	}
	return func(r *LedgerRow) int {
		if !r.HasDate {
			return -1
		}
		if i, ok := index[monthKey(r.PostingDate)]; ok {
			return i
		}
		return -1
	}
}

func monthColumns(idCols []string, months []time.Time) []string {
	cols := make([]string, 0, len(idCols)+len(months))
	cols = append(cols, idCols...)
	for _, m := range months {
		cols = append(cols, m.Format(monthHeaderLayout))
	}
	return cols
}

// assembleFilled forward-fills each pivot row and materializes the table
// plus its fill mask. Filling mutates the pivot rows, so month-over-month
// change computed afterwards sees carried values.
func assembleFilled(idCols []string, months []time.Time, rows []pivotRow) (*Table, *Mask) {
	t := &Table{Columns: monthColumns(idCols, months)}
	m := &Mask{Columns: t.Columns}

	for _, pr := range rows {
		filled := forwardFill(pr.cells)

		cells := make([]Cell, 0, len(t.Columns))
		maskRow := make([]bool, len(idCols), len(t.Columns))
		for _, v := range pr.identity {
			cells = append(cells, TextCell(v))
		}
		for p := range months {
			cells = append(cells, numberOrEmpty(pr.cells[p]))
			maskRow = append(maskRow, filled[p])
		}
		t.Rows = append(t.Rows, cells)
		m.Rows = append(m.Rows, maskRow)
	}
	return t, m
}

// assembleMoM computes the fractional change between consecutive filled
// months. A change is defined only when both months carry a value and the
// earlier one is nonzero; the first month never has one. The mask marks
// undefined cells.
func assembleMoM(idCols []string, months []time.Time, rows []pivotRow) (*Table, *Mask) {
	t := &Table{Columns: monthColumns(idCols, months)}
	m := &Mask{Columns: t.Columns}
	one := decimal.NewFromInt(1)

	for _, pr := range rows {
		cells := make([]Cell, 0, len(t.Columns))
		maskRow := make([]bool, len(idCols), len(t.Columns))
		for _, v := range pr.identity {
			cells = append(cells, TextCell(v))
		}
		for p := range months {
			if p == 0 {
				cells = append(cells, EmptyCell())
				maskRow = append(maskRow, true)
				continue
			}
			cur, prev := pr.cells[p], pr.cells[p-1]
			if cur.Valid && prev.Valid && !prev.Decimal.IsZero() {
				cells = append(cells, NumberCell(cur.Decimal.Div(prev.Decimal).Sub(one)))
				maskRow = append(maskRow, false)
			} else {
				cells = append(cells, EmptyCell())
				maskRow = append(maskRow, true)
			}
		}
		t.Rows = append(t.Rows, cells)
		m.Rows = append(m.Rows, maskRow)
	}
	return t, m
}

// assemblePlain materializes a pivot without filling.
func assemblePlain(idCols []string, months []time.Time, rows []pivotRow) *Table {
	t := &Table{Columns: monthColumns(idCols, months)}
	for _, pr := range rows {
		cells := make([]Cell, 0, len(t.Columns))
		for _, v := range pr.identity {
			cells = append(cells, TextCell(v))
		}
		for p := range months {
			cells = append(cells, numberOrEmpty(pr.cells[p]))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
