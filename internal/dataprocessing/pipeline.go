package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	apperrors "ppvcli/internal/errors"
)

// Report table names, which double as workbook sheet names.
const (
	TableData             = "Data"
	TableSummary          = "Summary"
	TableMoM              = "MoM Change"
	TableMonthlyVolume    = "Monthly Volume"
	TableLastPaid         = "Last Paid Price"
	TableYearlyPrices     = "Yearly Avg Price"
	TableYearlyVolumes    = "Yearly Volume"
	TableYearlyComparison = "Yearly Comparison"
	TableLastPaidYearly   = "Last Paid Yearly"
	TableLastPaidMonthly  = "Last Paid Monthly"
)

// Pipeline runs the full analysis: ingest, normalize, build the requested
// report tables. A Pipeline is stateless and safe for concurrent runs.
type Pipeline struct {
	logger *slog.Logger
}

func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger}
}

// Result is one successful run's output.
type Result struct {
	// RunID uniquely identifies the run across logs and output.
	RunID string
	// Tables holds the produced report tables in export order.
	Tables *TableSet
	// Diagnostics records every column resolution performed.
	Diagnostics *Diagnostics
	// Skipped lists requested reports that could not be built, with the
	// reason.
	Skipped []string
}

// Outcome is the terminal state of an asynchronous run.
type Outcome struct {
	Result *Result
	Err    error
}

// Start launches Run on its own goroutine. The returned channel delivers
// exactly one Outcome and is buffered, so the result is never lost if the
// caller reads late. Panics inside the run surface as errors.
func (p *Pipeline) Start(ctx context.Context, opts Options) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- Outcome{Err: fmt.Errorf("analysis run panicked: %v", r)}
			}
		}()
		res, err := p.Run(ctx, opts)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// Run executes one analysis synchronously.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With(slog.String("run_id", runID))

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("analysis run started",
		slog.String("ledger", opts.LedgerPath),
		slog.String("view", string(opts.View)))

	diags := &Diagnostics{}
	raw, err := ReadTable(opts.LedgerPath)
	if err != nil {
		return nil, err
	}
	ledger, err := Normalize(raw, diags)
	if err != nil {
		return nil, err
	}
	logger.Info("ledger normalized",
		slog.Int("rows", len(ledger.Rows)),
		slog.Int("resolutions", len(diags.Records)))

	result := &Result{RunID: runID, Tables: NewTableSet(), Diagnostics: diags}
	result.Tables.Add(TableData, buildDataTable(ledger))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Reports.Summary || opts.Reports.MoM || opts.Reports.MonthlyVolume {
		monthly := BuildMonthlyTables(ledger, opts.View)
		if monthly == nil {
			result.skip(logger, "monthly tables", "no rows with a parseable posting date")
		} else {
			if opts.Reports.Summary {
				result.Tables.AddWithMask(TableSummary, monthly.Summary, monthly.SummaryMask)
			}
			if opts.Reports.MoM {
				result.Tables.AddWithMask(TableMoM, monthly.MoM, monthly.MoMMask)
			}
			if opts.Reports.MonthlyVolume {
				result.Tables.Add(TableMonthlyVolume, monthly.Volume)
			}
		}
	}

	if opts.Reports.LastPaid {
		if t := BuildLastPaidTable(ledger, opts.View); t != nil {
			result.Tables.Add(TableLastPaid, t)
		} else {
			result.skip(logger, TableLastPaid, "no dated rows with a unit price")
		}
	}

	if opts.Reports.YearlyComparison {
		if opts.Years == nil {
			result.skip(logger, TableYearlyComparison, "no year range given")
		} else if yt := BuildYearlyComparison(ledger, opts.View, opts.Years.Start, opts.Years.End, opts.Years.Target); yt != nil {
			result.Tables.AddWithMask(TableYearlyPrices, yt.Prices, yt.PricesMask)
			result.Tables.Add(TableYearlyVolumes, yt.Volumes)
			result.Tables.Add(TableYearlyComparison, yt.Comparison)
		} else {
			result.skip(logger, TableYearlyComparison, "no eligible rows in the year range")
		}
	}

	if opts.Reports.LastPaidByYear || opts.Reports.LastPaidByMonth {
		startYear, endYear, ok := opts.periodYears(ledger)
		if !ok {
			result.skip(logger, "last paid period tables", "no dated rows")
		} else {
			if opts.Reports.LastPaidByYear {
				t, m := BuildLastPaidByYear(ledger, opts.View, startYear, endYear)
				if t != nil {
					result.Tables.AddWithMask(TableLastPaidYearly, t, m)
				} else {
					result.skip(logger, TableLastPaidYearly, "no priced rows in the year range")
				}
			}
			if opts.Reports.LastPaidByMonth {
				t, m := BuildLastPaidByMonth(ledger, opts.View, startYear, endYear)
				if t != nil {
					result.Tables.AddWithMask(TableLastPaidMonthly, t, m)
				} else {
					result.skip(logger, TableLastPaidMonthly, "no priced rows in the year range")
				}
			}
		}
	}

	if opts.Reports.CostVariance {
		if opts.Window == nil || opts.CostMasterPath == "" {
			result.skip(logger, "cost variance", "date window and cost master are required")
		} else {
			masterRaw, err := ReadTable(opts.CostMasterPath)
			if err != nil {
				return nil, err
			}
			master, err := NormalizeCostMaster(masterRaw, diags)
			if err != nil {
				return nil, err
			}
			if ledger.Columns.EventType < 0 {
				return nil, apperrors.NewValidationError("cost variance requires a transaction event type column")
			}
			sheet := CostVarianceSheetName(opts.PeriodName)
			result.Tables.Add(sheet, BuildCostVariance(ledger, master, *opts.Window, opts.EventTypeFilter))
		}
	}

	logger.Info("analysis run finished",
		slog.Int("tables", len(result.Tables.Order)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (r *Result) skip(logger *slog.Logger, name, reason string) {
	r.Skipped = append(r.Skipped, fmt.Sprintf("%s: %s", name, reason))
	logger.Warn("report skipped", slog.String("report", name), slog.String("reason", reason))
}

// periodYears picks the year span for last-paid period tables: the explicit
// range when given, otherwise the observed posting-year span.
func (o *Options) periodYears(ledger *Ledger) (int, int, bool) {
	if o.Years != nil {
		return o.Years.Start, o.Years.End, true
	}
	return yearSpan(ledger.Rows)
}

// buildDataTable materializes the normalized ledger for export.
func buildDataTable(ledger *Ledger) *Table {
	t := &Table{Columns: []string{
		ColPartNumber, ColVendor, ColVendorNumber, ColUnit, ColAggregatedUnit,
		ColCurrency, ColPlant, ColEventType,
		"Pstng Date", "Amount", "Quantity", "P/U",
	}}
	for i := range ledger.Rows {
		r := &ledger.Rows[i]
		dateCell := EmptyCell()
		if r.HasDate {
			dateCell = TextCell(r.PostingDate.Format(dateCellLayout))
		}
		t.Rows = append(t.Rows, []Cell{
			TextCell(r.PartNumber), TextCell(r.Vendor), TextCell(r.VendorNumber),
			TextCell(r.Unit), TextCell(r.AggregatedUnit),
			TextCell(r.Currency), TextCell(r.Plant), TextCell(r.EventType),
			dateCell,
			numberOrEmpty(r.Amount), numberOrEmpty(r.Quantity), numberOrEmpty(r.UnitPrice),
		})
	}
	return t
}
