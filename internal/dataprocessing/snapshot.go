package dataprocessing

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the last-paid snapshot table.
const (
	ColLastPaidDate  = "Date"
	ColLastPaidPrice = "LastPaidPrice"
)

// lastPaidEligible reports whether a row can contribute a last-paid price.
func lastPaidEligible(r *LedgerRow) bool {
	return r.HasDate && r.UnitPrice.Valid
}

// selectLatest picks, per identity, the index of the most recent eligible
// row. Date ties resolve to the row appearing later in the ledger, matching
// how a stable sort-then-dedupe keeps the final occurrence.
func selectLatest(rows []LedgerRow, idCols []string, eligible func(*LedgerRow) bool) map[string]int {
	latest := make(map[string]int)
	for i := range rows {
		if !eligible(&rows[i]) {
			continue
		}
		key := identityKey(rows[i].identityValues(idCols))
		prev, ok := latest[key]
		if !ok || !rows[i].PostingDate.Before(rows[prev].PostingDate) {
			latest[key] = i
		}
	}
	return latest
}

// BuildLastPaidTable produces the all-time last-paid price snapshot: one row
// per price identity with the posting date and unit price of its most recent
// transaction. Returns nil when no row is eligible.
func BuildLastPaidTable(ledger *Ledger, view IdentityView) *Table {
	idCols := PriceIdentityColumns(view)
	latest := selectLatest(ledger.Rows, idCols, lastPaidEligible)
	if len(latest) == 0 {
		return nil
	}

	keys := make([]string, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{Columns: append(append([]string{}, idCols...), ColLastPaidDate, ColLastPaidPrice)}
	for _, key := range keys {
		r := &ledger.Rows[latest[key]]
		cells := make([]Cell, 0, len(t.Columns))
		for _, v := range r.identityValues(idCols) {
			cells = append(cells, TextCell(v))
		}
		cells = append(cells,
			TextCell(r.PostingDate.Format(dateCellLayout)),
			NumberCell(r.UnitPrice.Decimal))
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// BuildLastPaidByYear produces the last-paid price per identity per year
// over a dense year axis, forward-filled with a mask. Returns nils when no
// row inside the window is eligible.
func BuildLastPaidByYear(ledger *Ledger, view IdentityView, startYear, endYear int) (*Table, *Mask) {
	if endYear < startYear {
		return nil, nil
	}
	years := make([]int, 0, endYear-startYear+1)
	headers := make([]string, 0, cap(years))
	for y := startYear; y <= endYear; y++ {
		years = append(years, y)
		headers = append(headers, strconv.Itoa(y))
	}

	periodOf := func(r *LedgerRow) int {
		y := r.PostingDate.Year()
		if y < startYear || y > endYear {
			return -1
		}
		return y - startYear
	}
	return buildLastPaidMatrix(ledger, view, headers, len(years), periodOf)
}

// BuildLastPaidByMonth produces the last-paid price per identity per month
// across the given year window, forward-filled with a mask. The month axis
// is clipped to the span actually observed inside the window.
func BuildLastPaidByMonth(ledger *Ledger, view IdentityView, startYear, endYear int) (*Table, *Mask) {
	var first, last time.Time
	found := false
	for i := range ledger.Rows {
		r := &ledger.Rows[i]
		if !lastPaidEligible(r) {
			continue
		}
		y := r.PostingDate.Year()
		if y < startYear || y > endYear {
			continue
		}
		if !found || r.PostingDate.Before(first) {
			first = r.PostingDate
		}
		if !found || r.PostingDate.After(last) {
			last = r.PostingDate
		}
		found = true
	}
	if !found {
		return nil, nil
	}

	months := monthsBetween(first, last)
	headers := make([]string, len(months))
	index := make(map[time.Time]int, len(months))
	for i, m := range months {
		headers[i] = m.Format(monthHeaderLayout)
		index[m] = i
	}

	periodOf := func(r *LedgerRow) int {
		if i, ok := index[monthKey(r.PostingDate)]; ok {
			return i
		}
		return -1
	}
	return buildLastPaidMatrix(ledger, view, headers, len(months), periodOf)
}

// buildLastPaidMatrix selects the latest eligible price per identity per
// period, then forward-fills each identity's series.
func buildLastPaidMatrix(ledger *Ledger, view IdentityView, periodHeaders []string, periodCount int, periodOf func(*LedgerRow) int) (*Table, *Mask) {
	idCols := PriceIdentityColumns(view)

	type series struct {
		identity []string
		rowIdx   []int
	}
	byKey := make(map[string]*series)
	var keys []string

	for i := range ledger.Rows {
		r := &ledger.Rows[i]
		if !lastPaidEligible(r) {
			continue
		}
		p := periodOf(r)
		if p < 0 {
			continue
		}
		idVals := r.identityValues(idCols)
		key := identityKey(idVals)
		s := byKey[key]
		if s == nil {
			s = &series{identity: idVals, rowIdx: make([]int, periodCount)}
			for j := range s.rowIdx {
				s.rowIdx[j] = -1
			}
			byKey[key] = s
			keys = append(keys, key)
		}
		prev := s.rowIdx[p]
		if prev < 0 || !r.PostingDate.Before(ledger.Rows[prev].PostingDate) {
			s.rowIdx[p] = i
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	columns := append(append([]string{}, idCols...), periodHeaders...)
	t := &Table{Columns: columns}
	m := &Mask{Columns: columns}

	for _, key := range keys {
		s := byKey[key]
		cells := make([]decimal.NullDecimal, periodCount)
		for p, idx := range s.rowIdx {
			if idx >= 0 {
				cells[p] = ledger.Rows[idx].UnitPrice
			}
		}
		filled := forwardFill(cells)

		row := make([]Cell, 0, len(columns))
		maskRow := make([]bool, len(idCols), len(columns))
		for _, v := range s.identity {
			row = append(row, TextCell(v))
		}
		for p := 0; p < periodCount; p++ {
			row = append(row, numberOrEmpty(cells[p]))
			maskRow = append(maskRow, filled[p])
		}
		t.Rows = append(t.Rows, row)
		m.Rows = append(m.Rows, maskRow)
	}
	return t, m
}
