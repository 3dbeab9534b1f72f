package dataprocessing

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// YearlyTables bundles the year-axis comparison reports.
type YearlyTables struct {
	// Prices is the mean unit price per identity per year, forward-filled.
	Prices *Table
	// PricesMask marks price cells synthesized by forward-fill.
	PricesMask *Mask
	// Volumes is the total quantity per identity per year.
	Volumes *Table
	// Comparison relates each in-range year's filled price to the target
	// year's.
	Comparison *Table
}

// yearlyEligible keeps rows usable for the yearly analysis: dated, priced
// and with a known quantity.
func yearlyEligible(r *LedgerRow) bool {
	return r.HasDate && r.UnitPrice.Valid && r.Quantity.Valid
}

// BuildYearlyComparison derives the yearly average price, yearly volume and
// target-year comparison tables. The year axis is the requested range plus
// the target year; years outside it are ignored. Returns nil when no row is
// eligible.
func BuildYearlyComparison(ledger *Ledger, view IdentityView, startYear, endYear, targetYear int) *YearlyTables {
	if endYear < startYear {
		return nil
	}

	years := make([]int, 0, endYear-startYear+2)
	for y := startYear; y <= endYear; y++ {
		years = append(years, y)
	}
	if targetYear < startYear {
		years = append([]int{targetYear}, years...)
	} else if targetYear > endYear {
		years = append(years, targetYear)
	}

	yearIndex := make(map[int]int, len(years))
	headers := make([]string, len(years))
	for i, y := range years {
		yearIndex[y] = i
		headers[i] = strconv.Itoa(y)
	}

	periodOf := func(r *LedgerRow) int {
		if !yearlyEligible(r) {
			return -1
		}
		if i, ok := yearIndex[r.PostingDate.Year()]; ok {
			return i
		}
		return -1
	}

	priceCols := PriceIdentityColumns(view)
	priceRows := buildPivot(ledger.Rows, priceCols, len(years), periodOf,
		func(r *LedgerRow) decimal.NullDecimal { return r.UnitPrice }, pivotMean)
	if len(priceRows) == 0 {
		return nil
	}

	pricesCols := append(append([]string{}, priceCols...), headers...)
	prices := &Table{Columns: pricesCols}
	pricesMask := &Mask{Columns: pricesCols}

	for i := range priceRows {
		pr := &priceRows[i]
		filled := forwardFill(pr.cells)

		cells := make([]Cell, 0, len(pricesCols))
		maskRow := make([]bool, len(priceCols), len(pricesCols))
		for _, v := range pr.identity {
			cells = append(cells, TextCell(v))
		}
		for p := range years {
			cells = append(cells, numberOrEmpty(pr.cells[p]))
			maskRow = append(maskRow, filled[p])
		}
		prices.Rows = append(prices.Rows, cells)
		pricesMask.Rows = append(pricesMask.Rows, maskRow)
	}

	volumeCols := VolumeIdentityColumns(view)
	volumeRows := buildPivot(ledger.Rows, volumeCols, len(years), periodOf,
		func(r *LedgerRow) decimal.NullDecimal { return r.Quantity }, pivotSum)
	volumes := &Table{Columns: append(append([]string{}, volumeCols...), headers...)}
	zero := decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	for i := range volumeRows {
		vr := &volumeRows[i]
		cells := make([]Cell, 0, len(volumes.Columns))
		for _, v := range vr.identity {
			cells = append(cells, TextCell(v))
		}
		for p := range years {
			// Volume cells with no observations report zero, not null
			c := vr.cells[p]
			if !c.Valid {
				c = zero
			}
			cells = append(cells, numberOrEmpty(c))
		}
		volumes.Rows = append(volumes.Rows, cells)
	}

	comparison := buildComparison(priceCols, priceRows, years, yearIndex, startYear, endYear, targetYear)

	return &YearlyTables{
		Prices:     prices,
		PricesMask: pricesMask,
		Volumes:    volumes,
		Comparison: comparison,
	}
}

// buildComparison computes, per identity, the filled target-year price over
// each in-range year's filled price, minus one. The change is undefined when
// either price is missing or the year's price is zero. priceRows must
// already be forward-filled.
func buildComparison(idCols []string, priceRows []pivotRow, years []int, yearIndex map[int]int, startYear, endYear, targetYear int) *Table {
	targetIdx := yearIndex[targetYear]

	columns := append([]string{}, idCols...)
	var rangeIdx []int
	for y := startYear; y <= endYear; y++ {
		columns = append(columns, fmt.Sprintf("Price Change %% vs %d [%d]", targetYear, y))
		rangeIdx = append(rangeIdx, yearIndex[y])
	}

	one := decimal.NewFromInt(1)
	t := &Table{Columns: columns}
	for i := range priceRows {
		pr := &priceRows[i]
		cells := make([]Cell, 0, len(columns))
		for _, v := range pr.identity {
			cells = append(cells, TextCell(v))
		}
		target := pr.cells[targetIdx]
		for _, yi := range rangeIdx {
			base := pr.cells[yi]
			if target.Valid && base.Valid && !base.Decimal.IsZero() {
				cells = append(cells, NumberCell(target.Decimal.Div(base.Decimal).Sub(one)))
			} else {
				cells = append(cells, EmptyCell())
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
