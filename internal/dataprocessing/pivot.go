package dataprocessing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// monthHeaderLayout renders period column headers, e.g. "03/01/2024".
const monthHeaderLayout = "01/02/2006"

// dateCellLayout renders date values inside report cells.
const dateCellLayout = "01/02/2006"

// monthKey truncates a date to the first of its month in UTC.
func monthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthsBetween returns every month from first to last inclusive. The axis
// is dense: months with no transactions still appear so forward-fill has
// somewhere to land.
func monthsBetween(first, last time.Time) []time.Time {
	var months []time.Time
	for m := monthKey(first); !m.After(monthKey(last)); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// monthSpan finds the earliest and latest posting months among dated rows.
func monthSpan(rows []LedgerRow) (first, last time.Time, ok bool) {
	for i := range rows {
		if !rows[i].HasDate {
			continue
		}
		d := rows[i].PostingDate
		if !ok || d.Before(first) {
			first = d
		}
		if !ok || d.After(last) {
			last = d
		}
		ok = true
	}
	return first, last, ok
}

// yearSpan finds the earliest and latest posting years among dated rows.
func yearSpan(rows []LedgerRow) (first, last int, ok bool) {
	for i := range rows {
		if !rows[i].HasDate {
			continue
		}
		y := rows[i].PostingDate.Year()
		if !ok || y < first {
			first = y
		}
		if !ok || y > last {
			last = y
		}
		ok = true
	}
	return first, last, ok
}

// pivotRow is one identity's series across the period axis.
type pivotRow struct {
	identity []string
	cells    []decimal.NullDecimal
}

type pivotMode int

const (
	// pivotMean averages observations per cell; cells with none stay null.
	pivotMean pivotMode = iota
	// pivotSum totals observations per cell; cells with none are zero.
	pivotSum
)

// buildPivot aggregates a per-row value into an identity-by-period matrix.
// periodOf must return an index into the period axis, or -1 to skip the row.
// Row order is ascending by identity key, matching how spreadsheet pivots
// sort their index.
func buildPivot(
	rows []LedgerRow,
	idCols []string,
	periodCount int,
	periodOf func(*LedgerRow) int,
	valueOf func(*LedgerRow) decimal.NullDecimal,
	mode pivotMode,
) []pivotRow {
	type acc struct {
		identity []string
		sums     []decimal.Decimal
		counts   []int
	}

	byKey := make(map[string]*acc)
	var keys []string
	for i := range rows {
		p := periodOf(&rows[i])
		if p < 0 {
			continue
		}
		v := valueOf(&rows[i])
		if !v.Valid {
			continue
		}

		idVals := rows[i].identityValues(idCols)
		key := identityKey(idVals)
		a := byKey[key]
		if a == nil {
			a = &acc{
				identity: idVals,
				sums:     make([]decimal.Decimal, periodCount),
				counts:   make([]int, periodCount),
			}
			byKey[key] = a
			keys = append(keys, key)
		}
		a.sums[p] = a.sums[p].Add(v.Decimal)
		a.counts[p]++
	}

	sort.Strings(keys)

	out := make([]pivotRow, 0, len(keys))
	for _, key := range keys {
		a := byKey[key]
		cells := make([]decimal.NullDecimal, periodCount)
		for p := 0; p < periodCount; p++ {
			switch mode {
			case pivotMean:
				if a.counts[p] > 0 {
					cells[p] = decimal.NullDecimal{
						Decimal: a.sums[p].Div(decimal.NewFromInt(int64(a.counts[p]))),
						Valid:   true,
					}
				}
			case pivotSum:
				cells[p] = decimal.NullDecimal{Decimal: a.sums[p], Valid: true}
			}
		}
		out = append(out, pivotRow{identity: a.identity, cells: cells})
	}
	return out
}

// forwardFill propagates the last observed value into trailing null cells,
// in place. The returned mask is true exactly where a cell was null before
// the fill and carries a value after it; leading nulls stay null and
// unmasked.
func forwardFill(cells []decimal.NullDecimal) []bool {
	mask := make([]bool, len(cells))
	var last decimal.NullDecimal
	for i := range cells {
		if cells[i].Valid {
			last = cells[i]
			continue
		}
		if last.Valid {
			cells[i] = last
			mask[i] = true
		}
	}
	return mask
}
