package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column alias lists, highest priority first. These track the header
// variants that different ERP ledger extracts use for the same field.
var (
	dateAliases         = []string{"Pstng Date", "Posting Date", "Post Date"}
	amountAliases       = []string{"Amount in PO currency", "USD Invoiced", "Amount"}
	quantityAliases     = []string{"Net Qty in BUoM", "Units", "Quantity"}
	partNumberAliases   = []string{"Part Number", "Material", "Part"}
	vendorAliases       = []string{"Vendor", "Vendor Name", "Supplier"}
	vendorNumberAliases = []string{"Vendor Account Number", "Vendor #", "Vendor Number", "Supplier Number"}
	plantAliases        = []string{"Plant", "Plnt"}
	eventTypeAliases    = []string{"Tr./ev.type", "Tr./Ev. type", "Transaction Event Type", "Event Type"}
	unitAliases         = []string{"Order Unit", "OUn", "UoM"}
	// "Crcy.1" first: when an extract carries both a document and a local
	// currency column the second occurrence is the one priced in.
	currencyAliases = []string{"Crcy.1", "Currency", "Crcy", "Curr."}
)

// dateLayouts covers the formats ledger extracts have been seen to use.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01-02-2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/06",
	"01/02/06",
}

// LedgerColumns holds the resolved header index for each logical field.
// An index of -1 means the field's column is absent.
type LedgerColumns struct {
	Date         int
	Amount       int
	Quantity     int
	PartNumber   int
	Vendor       int
	VendorNumber int
	Plant        int
	EventType    int
	Unit         int
	Currency     int

	// DroppedCurrency lists currency headers beyond the first duplicate
	// occurrence; only the first survives resolution.
	DroppedCurrency []string
}

// MissingColumnsError reports every mandatory ledger field that failed to
// resolve, so operators can fix all header problems in one pass.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("ledger is missing mandatory columns: %s", strings.Join(e.Fields, ", "))
}

// ResolveLedgerColumns maps the physical headers onto the logical ledger
// fields. Mandatory fields are date, amount, quantity and part number; the
// rest degrade to the N/A sentinel when absent.
func ResolveLedgerColumns(headers []string, diags *Diagnostics) (*LedgerColumns, error) {
	headers = dedupeCurrencyHeaders(headers, diags)

	cols := &LedgerColumns{
		Date:         ResolveColumn(headers, dateAliases, "posting date", diags),
		Amount:       ResolveColumn(headers, amountAliases, "amount", diags),
		Quantity:     ResolveColumn(headers, quantityAliases, "quantity", diags),
		PartNumber:   ResolveColumn(headers, partNumberAliases, "part number", diags),
		Vendor:       ResolveColumn(headers, vendorAliases, "vendor", diags),
		VendorNumber: ResolveColumn(headers, vendorNumberAliases, "vendor number", diags),
		Plant:        ResolveColumn(headers, plantAliases, "plant", diags),
		EventType:    ResolveColumn(headers, eventTypeAliases, "event type", diags),
		Unit:         ResolveColumn(headers, unitAliases, "order unit", diags),
		Currency:     ResolveColumn(headers, currencyAliases, "currency", diags),
	}

	var missing []string
	for _, m := range []struct {
		field string
		idx   int
	}{
		{"posting date", cols.Date},
		{"amount", cols.Amount},
		{"quantity", cols.Quantity},
		{"part number", cols.PartNumber},
	} {
		if m.idx < 0 {
			missing = append(missing, m.field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}
	return cols, nil
}

// dedupeCurrencyHeaders blanks repeated currency headers so only the first
// occurrence can resolve. The second of two identical headers would otherwise
// shadow the first at read time.
func dedupeCurrencyHeaders(headers []string, diags *Diagnostics) []string {
	currencySet := make(map[string]bool, len(currencyAliases))
	for _, a := range currencyAliases {
		currencySet[strings.ToLower(a)] = true
	}

	out := make([]string, len(headers))
	copy(out, headers)
	seen := false
	for i, h := range out {
		norm := strings.ToLower(strings.TrimSpace(h))
		if !currencySet[norm] {
			continue
		}
		if seen {
			diags.add(Diagnostic{
				Field:      "currency",
				Column:     strings.TrimSpace(h),
				Candidates: currencyAliases,
				Matched:    false,
				Dropped:    true,
			})
			out[i] = ""
			continue
		}
		seen = true
	}
	return out
}

// LedgerRow is one normalized ledger transaction.
type LedgerRow struct {
	PostingDate time.Time
	HasDate     bool

	Amount    decimal.NullDecimal
	Quantity  decimal.NullDecimal
	UnitPrice decimal.NullDecimal

	PartNumber     string
	Vendor         string
	VendorNumber   string
	Unit           string
	AggregatedUnit string
	Currency       string
	Plant          string
	EventType      string
}

// Ledger is the normalized transaction set plus its resolved column map.
type Ledger struct {
	Rows    []LedgerRow
	Columns *LedgerColumns
}

// Normalize converts a raw ledger table into typed rows. Rows without a
// part number identify nothing and are dropped. Unparseable dates and
// numbers become null, never errors; only missing mandatory columns abort.
// Normalizing an already clean table is a no-op on its values.
func Normalize(raw *RawTable, diags *Diagnostics) (*Ledger, error) {
	cols, err := ResolveLedgerColumns(raw.Headers, diags)
	if err != nil {
		return nil, err
	}

	rows := make([]LedgerRow, 0, len(raw.Rows))
	for i := range raw.Rows {
		part := strings.TrimSpace(raw.Cell(i, cols.PartNumber))
		if part == "" {
			continue
		}

		row := LedgerRow{
			PartNumber:   part,
			Vendor:       cellOrSentinel(raw, i, cols.Vendor),
			VendorNumber: cellOrSentinel(raw, i, cols.VendorNumber),
			Unit:         strings.TrimSpace(raw.Cell(i, cols.Unit)),
			Currency:     cellOrSentinel(raw, i, cols.Currency),
			Plant:        cellOrSentinel(raw, i, cols.Plant),
			EventType:    cellOrSentinel(raw, i, cols.EventType),
		}

		if d, ok := parseDate(raw.Cell(i, cols.Date)); ok {
			row.PostingDate = d
			row.HasDate = true
		}

		row.Amount = parseNumeric(raw.Cell(i, cols.Amount))
		row.Quantity = parseNumeric(raw.Cell(i, cols.Quantity))
		if row.Amount.Valid && row.Quantity.Valid && !row.Quantity.Decimal.IsZero() {
			row.UnitPrice = decimal.NullDecimal{
				Decimal: row.Amount.Decimal.Div(row.Quantity.Decimal),
				Valid:   true,
			}
		}

		rows = append(rows, row)
	}

	assignAggregatedUnits(rows, cols.Unit >= 0)

	return &Ledger{Rows: rows, Columns: cols}, nil
}

// cellOrSentinel reads a descriptive cell; an absent column yields the N/A
// sentinel so identity keys stay total.
func cellOrSentinel(raw *RawTable, row, col int) string {
	if col < 0 {
		return NotAvailable
	}
	v := strings.TrimSpace(raw.Cell(row, col))
	if v == "" {
		return NotAvailable
	}
	return v
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumeric coerces a cell to a decimal, tolerating currency formatting.
func parseNumeric(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	// Accounting-style negatives: (123.45)
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = "-" + s[1:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// assignAggregatedUnits sets each row's AggregatedUnit to the sorted,
// deduplicated "/"-join of every order unit observed for its part number.
// Rows whose part never carries a unit, or ledgers without a unit column,
// get the N/A sentinel.
func assignAggregatedUnits(rows []LedgerRow, haveUnitColumn bool) {
	if !haveUnitColumn {
		for i := range rows {
			rows[i].AggregatedUnit = NotAvailable
		}
		return
	}

	unitsByPart := make(map[string]map[string]bool)
	for i := range rows {
		if rows[i].Unit == "" {
			continue
		}
		set := unitsByPart[rows[i].PartNumber]
		if set == nil {
			set = make(map[string]bool)
			unitsByPart[rows[i].PartNumber] = set
		}
		set[rows[i].Unit] = true
	}

	joined := make(map[string]string, len(unitsByPart))
	for part, set := range unitsByPart {
		units := make([]string, 0, len(set))
		for u := range set {
			units = append(units, u)
		}
		sort.Strings(units)
		joined[part] = strings.Join(units, "/")
	}

	for i := range rows {
		if agg, ok := joined[rows[i].PartNumber]; ok {
			rows[i].AggregatedUnit = agg
		} else {
			rows[i].AggregatedUnit = NotAvailable
		}
	}
}
