package dataprocessing

import "strings"

// NotAvailable is the sentinel written into descriptive fields whose source
// column is absent from the ledger. It participates in identity keys like any
// other value.
const NotAvailable = "N/A"

// Canonical column names used across report tables. They mirror the compact
// headers procurement ledgers carry so exported reports read like the source
// system's own extracts.
const (
	ColPartNumber     = "Part Number"
	ColVendor         = "Vendor"
	ColVendorNumber   = "Vendor Number"
	ColUnit           = "OUn"
	ColAggregatedUnit = "Aggregated OUn"
	ColCurrency       = "Crcy"
	ColPlant          = "Plnt"
	ColEventType      = "Tr./ev.type"
)

// IdentityView selects how finely report rows are keyed.
type IdentityView string

const (
	// ViewDetailed keys rows on the full identity including plant and
	// transaction event type.
	ViewDetailed IdentityView = "detailed"
	// ViewSimple collapses plant and event type so each part/vendor pair
	// yields a single row.
	ViewSimple IdentityView = "simple"
)

// PriceIdentityColumns returns the identity columns used by price-oriented
// tables under the given view.
func PriceIdentityColumns(view IdentityView) []string {
	cols := []string{ColPartNumber, ColVendor, ColVendorNumber, ColAggregatedUnit, ColCurrency}
	if view == ViewDetailed {
		cols = append(cols, ColPlant, ColEventType)
	}
	return cols
}

// VolumeIdentityColumns returns the identity columns used by volume tables.
// Currency is excluded because quantities are currency-independent.
func VolumeIdentityColumns(view IdentityView) []string {
	cols := []string{ColPartNumber, ColVendor, ColVendorNumber, ColAggregatedUnit}
	if view == ViewDetailed {
		cols = append(cols, ColPlant, ColEventType)
	}
	return cols
}

// identityKeySep cannot occur in cell values, so joined keys are unambiguous.
const identityKeySep = "\x1f"

func identityKey(values []string) string {
	return strings.Join(values, identityKeySep)
}

// identityValues extracts the identity column values for a ledger row.
func (r *LedgerRow) identityValues(columns []string) []string {
	vals := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case ColPartNumber:
			vals[i] = r.PartNumber
		case ColVendor:
			vals[i] = r.Vendor
		case ColVendorNumber:
			vals[i] = r.VendorNumber
		case ColUnit:
			vals[i] = r.Unit
		case ColAggregatedUnit:
			vals[i] = r.AggregatedUnit
		case ColCurrency:
			vals[i] = r.Currency
		case ColPlant:
			vals[i] = r.Plant
		case ColEventType:
			vals[i] = r.EventType
		}
	}
	return vals
}
