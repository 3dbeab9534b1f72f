package dataprocessing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoodsReceiptEventType is the transaction event type counted as a paid
// receipt. Cost variance only considers these rows.
const GoodsReceiptEventType = "2"

// Labels written into cost variance cells in place of missing data.
const (
	LabelPartNotFound   = "Part number not found"
	LabelNoTransactions = "No transactions"
)

// Cost variance column names beyond the shared identity columns.
const (
	ColDescription       = "Description"
	ColPlanningValue     = "PV"
	ColLastPaidPriceSwat = "Last Paid Price"
	ColNewCost           = "New Cost"
	ColPPV               = "PPV"
	ColFiscalMonthVolume = "Fiscal Month Volume"
	ColExtendedPPV       = "Extended PPV"
	ColPctDifference     = "% Difference"
)

// DateWindow is an inclusive posting-date range.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// CostMasterRow is one target-cost entry.
type CostMasterRow struct {
	PartNumber    string
	NewCost       decimal.NullDecimal
	PlanningValue string
	Description   string
}

// CostMaster is the normalized target-cost list. Optional columns are only
// emitted in the variance report when the source carried them.
type CostMaster struct {
	Rows             []CostMasterRow
	HasDescription   bool
	HasPlanningValue bool
}

// costMaster alias lists.
var (
	costPartAliases  = []string{"Part Number", "Material", "Part#"}
	costValueAliases = []string{"New Cost", "Cost"}
	costPVAliases    = []string{"PV", "Planning Value"}
	costDescAliases  = []string{"Description", "Desc"}
)

// NormalizeCostMaster converts a raw cost master table into typed rows.
// Part number and cost columns are mandatory; planning value and description
// are carried through verbatim when present.
func NormalizeCostMaster(raw *RawTable, diags *Diagnostics) (*CostMaster, error) {
	partIdx := ResolveColumn(raw.Headers, costPartAliases, "cost master part number", diags)
	costIdx := ResolveColumn(raw.Headers, costValueAliases, "cost master new cost", diags)
	pvIdx := ResolveColumn(raw.Headers, costPVAliases, "cost master planning value", diags)
	descIdx := ResolveColumn(raw.Headers, costDescAliases, "cost master description", diags)

	var missing []string
	if partIdx < 0 {
		missing = append(missing, "part number")
	}
	if costIdx < 0 {
		missing = append(missing, "new cost")
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}

	master := &CostMaster{
		Rows:             make([]CostMasterRow, len(raw.Rows)),
		HasDescription:   descIdx >= 0,
		HasPlanningValue: pvIdx >= 0,
	}
	for i := range raw.Rows {
		master.Rows[i] = CostMasterRow{
			PartNumber:    strings.TrimSpace(raw.Cell(i, partIdx)),
			NewCost:       parseNumeric(raw.Cell(i, costIdx)),
			PlanningValue: strings.TrimSpace(raw.Cell(i, pvIdx)),
			Description:   strings.TrimSpace(raw.Cell(i, descIdx)),
		}
	}
	return master, nil
}

// BuildCostVariance reconciles the cost master against observed last-paid
// prices. For each master part it reports the latest goods-receipt price
// inside the window, the window's total volume, and the variance against the
// target cost. Master row order is preserved; parts never seen in the ledger
// get not-found labels, parts with no windowed receipts get a no-transactions
// label.
func BuildCostVariance(ledger *Ledger, master *CostMaster, window DateWindow, eventType string) *Table {
	if eventType == "" {
		eventType = GoodsReceiptEventType
	}
	isReceipt := func(r *LedgerRow) bool {
		return r.HasDate && strings.TrimSpace(r.EventType) == eventType
	}

	// Latest windowed receipt per part carries the last-paid price, even
	// when that receipt's own price is null.
	latestInWindow := selectLatest(ledger.Rows, []string{ColPartNumber}, func(r *LedgerRow) bool {
		return isReceipt(r) && window.Contains(r.PostingDate)
	})

	// Window volume per part sums every windowed receipt quantity.
	volume := make(map[string]decimal.NullDecimal)
	for i := range ledger.Rows {
		r := &ledger.Rows[i]
		if !isReceipt(r) || !window.Contains(r.PostingDate) || !r.Quantity.Valid {
			continue
		}
		v := volume[r.PartNumber]
		v.Decimal = v.Decimal.Add(r.Quantity.Decimal)
		v.Valid = true
		volume[r.PartNumber] = v
	}

	// Identity fields come from the latest receipt across the whole ledger,
	// not just the window.
	latestAllTime := selectLatest(ledger.Rows, []string{ColPartNumber}, isReceipt)

	columns := []string{ColPartNumber}
	if master.HasDescription {
		columns = append(columns, ColDescription)
	}
	if master.HasPlanningValue {
		columns = append(columns, ColPlanningValue)
	}
	columns = append(columns,
		ColVendor, ColVendorNumber, ColAggregatedUnit, ColCurrency,
		ColLastPaidPriceSwat, ColNewCost, ColPPV,
		ColFiscalMonthVolume, ColExtendedPPV, ColPctDifference)

	t := &Table{Columns: columns}
	for i := range master.Rows {
		mr := &master.Rows[i]
		cells := make([]Cell, 0, len(columns))
		cells = append(cells, TextCell(mr.PartNumber))
		if master.HasDescription {
			cells = append(cells, TextCell(mr.Description))
		}
		if master.HasPlanningValue {
			cells = append(cells, TextCell(mr.PlanningValue))
		}

		var lastPaid decimal.NullDecimal
		var lastPaidCell Cell
		if idx, found := latestAllTime[mr.PartNumber]; found {
			id := &ledger.Rows[idx]
			cells = append(cells,
				TextCell(id.Vendor), TextCell(id.VendorNumber),
				TextCell(id.AggregatedUnit), TextCell(id.Currency))
			if widx, ok := latestInWindow[mr.PartNumber]; ok && ledger.Rows[widx].UnitPrice.Valid {
				lastPaid = ledger.Rows[widx].UnitPrice
				lastPaidCell = NumberCell(lastPaid.Decimal)
			} else {
				lastPaidCell = TextCell(LabelNoTransactions)
			}
		} else {
			notFound := TextCell(LabelPartNotFound)
			cells = append(cells, notFound, notFound, notFound, notFound)
			lastPaidCell = EmptyCell()
		}
		cells = append(cells, lastPaidCell, numberOrEmpty(mr.NewCost))

		ppv := nullSub(lastPaid, mr.NewCost)
		vol := volume[mr.PartNumber]
		cells = append(cells,
			numberOrEmpty(ppv),
			numberOrEmpty(vol),
			numberOrEmpty(nullMul(ppv, vol)),
			numberOrEmpty(nullDiv(ppv, mr.NewCost)))

		t.Rows = append(t.Rows, cells)
	}
	return t
}

func nullSub(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: a.Decimal.Sub(b.Decimal), Valid: true}
}

func nullMul(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: a.Decimal.Mul(b.Decimal), Valid: true}
}

// nullDiv is null when either operand is null or the divisor is zero.
func nullDiv(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid || b.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: a.Decimal.Div(b.Decimal), Valid: true}
}

// CostVarianceSheetName derives the workbook sheet name from the optional
// period label. Path separators are replaced and the label is truncated so
// the name stays a valid sheet name.
func CostVarianceSheetName(periodName string) string {
	periodName = strings.TrimSpace(periodName)
	if periodName == "" {
		return "SWAT Cost analysis"
	}
	safe := strings.NewReplacer("/", "-", "\\", "-").Replace(periodName)
	if len(safe) > 20 {
		safe = safe[:20]
	}
	return "SWAT - " + safe
}
