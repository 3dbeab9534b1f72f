package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ppvcli/internal/config"
	"ppvcli/internal/dataprocessing"
	"ppvcli/internal/exporter"
	"ppvcli/internal/infrastructure"
)

func main() {
	ledgerPath := flag.String("ledger", "", "path to the purchase ledger file (.xlsx, .xlsm or .csv)")
	outPath := flag.String("out", "", "output path; a .xlsx workbook, or a directory for CSV output")
	format := flag.String("format", "xlsx", "output format: xlsx or csv")
	view := flag.String("view", "detailed", "identity granularity: detailed or simple")
	reports := flag.String("reports", "summary,mom,volume,lastpaid,lastpaid-year,lastpaid-month",
		"comma-separated reports: summary, mom, volume, lastpaid, yearly, lastpaid-year, lastpaid-month, swat")
	years := flag.String("years", "", "year range for the yearly comparison, e.g. 2022-2024")
	target := flag.Int("target", 0, "target year for the yearly comparison (defaults to the range end)")
	window := flag.String("window", "", "inclusive date window for the cost variance report, e.g. 01/01/2024:01/31/2024")
	costMaster := flag.String("cost-master", "", "path to the target cost file for the cost variance report")
	periodName := flag.String("period-name", "", "label for the cost variance sheet")
	eventType := flag.String("event-type", "", "transaction event type counted as a paid receipt (default 2)")
	configFile := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if *ledgerPath == "" {
		fmt.Fprintln(os.Stderr, "analyzer: -ledger is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: failed to create directories: %v\n", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	opts, err := buildOptions(*ledgerPath, *view, *reports, *years, *target, *window, *costMaster, *periodName, *eventType)
	if err != nil {
		logger.Error("invalid arguments", slog.String("error", err.Error()))
		os.Exit(2)
	}

	outcome := <-dataprocessing.NewPipeline(logger).Start(context.Background(), opts)
	if outcome.Err != nil {
		logger.Error("analysis failed", slog.String("error", outcome.Err.Error()))
		os.Exit(1)
	}
	result := outcome.Result

	for _, skipped := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s\n", skipped)
	}

	if err := export(cfg, *format, *outPath, result); err != nil {
		logger.Error("export failed",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig honors an explicit -config path; otherwise the default
// locations (including PPV_CONFIG_FILE) apply.
func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		return config.Load()
	}
	return config.LoadFromFile(configFile)
}

func buildOptions(ledgerPath, view, reports, years string, target int, window, costMaster, periodName, eventType string) (dataprocessing.Options, error) {
	opts := dataprocessing.Options{
		LedgerPath:      ledgerPath,
		View:            dataprocessing.IdentityView(view),
		CostMasterPath:  costMaster,
		PeriodName:      periodName,
		EventTypeFilter: eventType,
	}

	for _, name := range strings.Split(reports, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "summary":
			opts.Reports.Summary = true
		case "mom":
			opts.Reports.MoM = true
		case "volume":
			opts.Reports.MonthlyVolume = true
		case "lastpaid":
			opts.Reports.LastPaid = true
		case "yearly":
			opts.Reports.YearlyComparison = true
		case "lastpaid-year":
			opts.Reports.LastPaidByYear = true
		case "lastpaid-month":
			opts.Reports.LastPaidByMonth = true
		case "swat":
			opts.Reports.CostVariance = true
		default:
			return opts, fmt.Errorf("unknown report %q", name)
		}
	}

	if years != "" {
		yr, err := parseYearRange(years, target)
		if err != nil {
			return opts, err
		}
		opts.Years = yr
	}

	if window != "" {
		w, err := parseWindow(window)
		if err != nil {
			return opts, err
		}
		opts.Window = w
	}

	return opts, nil
}

func parseYearRange(s string, target int) (*dataprocessing.YearRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid year range %q, want START-END", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid start year %q", parts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid end year %q", parts[1])
	}
	if target == 0 {
		target = end
	}
	return &dataprocessing.YearRange{Start: start, End: end, Target: target}, nil
}

func parseWindow(s string) (*dataprocessing.DateWindow, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid window %q, want START:END", s)
	}
	start, err := time.ParseInLocation("01/02/2006", strings.TrimSpace(parts[0]), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid window start %q", parts[0])
	}
	end, err := time.ParseInLocation("01/02/2006", strings.TrimSpace(parts[1]), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid window end %q", parts[1])
	}
	return &dataprocessing.DateWindow{Start: start, End: end}, nil
}

func export(cfg *config.Config, format, outPath string, result *dataprocessing.Result) error {
	switch format {
	case "xlsx":
		if outPath == "" {
			outPath = cfg.Paths.GetReportPath("analysis.xlsx")
		}
		if err := exporter.NewWorkbookWriter().Write(outPath, result.Tables); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	case "csv":
		paths := cfg.Paths
		if outPath != "" {
			paths.ReportsDir = outPath
		}
		written, err := exporter.NewCSVWriter(&paths).WriteTableSet(result.Tables)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Printf("wrote %s\n", p)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
