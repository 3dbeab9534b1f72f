// Package dataprocessing implements the procurement ledger analytics engine.
//
// The engine ingests a transactional purchase ledger from a spreadsheet-like
// file, normalizes it (column alias resolution, numeric and date cleanup,
// identity key construction), and derives a family of price/volume report
// tables: monthly unit-price summaries with month-over-month change, monthly
// and yearly volume, last-paid price at three granularities, a multi-year
// price comparison, and a cost-variance (SWAT) report that reconciles
// observed last-paid prices against an externally supplied target-cost
// master.
//
// Every stage consumes immutable inputs and produces immutable outputs; the
// engine holds no state between runs. Recoverable data problems (unparseable
// dates, non-numeric amounts, undefined ratios) become null cells that the
// reporting layer renders as labels, never errors. Only unresolvable
// mandatory columns abort a run.
package dataprocessing
