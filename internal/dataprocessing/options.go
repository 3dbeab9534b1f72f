package dataprocessing

import (
	"github.com/go-playground/validator/v10"

	apperrors "ppvcli/internal/errors"
)

// Reports selects which tables a run produces. The raw data table is always
// produced.
type Reports struct {
	Summary          bool
	MoM              bool
	MonthlyVolume    bool
	LastPaid         bool
	YearlyComparison bool
	LastPaidByYear   bool
	LastPaidByMonth  bool
	CostVariance     bool
}

// YearRange parameterizes the yearly comparison: the inclusive year span to
// report on, and the target year every span year is compared against. The
// target may fall outside the span.
type YearRange struct {
	Start  int `validate:"required"`
	End    int `validate:"required,gtefield=Start"`
	Target int `validate:"required"`
}

// Options configures one analysis run.
type Options struct {
	// LedgerPath is the transactional ledger file (.xlsx, .xlsm or .csv).
	LedgerPath string `validate:"required"`
	// View selects the identity granularity of report rows.
	View IdentityView `validate:"oneof=detailed simple"`
	// Reports selects which tables to build.
	Reports Reports
	// Years parameterizes the yearly comparison and last-paid-by-period
	// reports. When nil, the span of observed posting years is used and the
	// yearly comparison is skipped.
	Years *YearRange
	// Window bounds the cost variance report. Required for cost variance.
	Window *DateWindow
	// CostMasterPath is the target-cost file. Required for cost variance.
	CostMasterPath string
	// PeriodName labels the cost variance sheet.
	PeriodName string
	// EventTypeFilter overrides the goods-receipt event type for cost
	// variance. Empty means GoodsReceiptEventType.
	EventTypeFilter string
}

var validate = validator.New()

// Validate checks the options for structural problems. Reports whose
// parameters are absent are skipped at run time, not rejected here; only
// contradictions fail.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if o.Years != nil {
		if err := validate.Struct(o.Years); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
	}
	if o.Reports.CostVariance && o.Window != nil && o.CostMasterPath == "" {
		return apperrors.NewValidationError("cost variance requires a cost master file")
	}
	if o.Window != nil && o.Window.End.Before(o.Window.Start) {
		return apperrors.NewValidationError("date window end precedes start")
	}
	return nil
}

// DefaultOptions returns options producing every report that needs no extra
// parameters, under the detailed view.
func DefaultOptions(ledgerPath string) Options {
	return Options{
		LedgerPath: ledgerPath,
		View:       ViewDetailed,
		Reports: Reports{
			Summary:         true,
			MoM:             true,
			MonthlyVolume:   true,
			LastPaid:        true,
			LastPaidByYear:  true,
			LastPaidByMonth: true,
		},
	}
}
