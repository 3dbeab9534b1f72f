package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"ppvcli/internal/dataprocessing"
)

// ledgerlint checks a ledger file's headers against the known column
// aliases and prints which logical field each header resolved to. Useful
// before a long analysis run to catch renamed or missing columns.
func main() {
	path := flag.String("ledger", "", "path to the ledger file to check (.xlsx, .xlsm or .csv)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "ledgerlint: -ledger is required")
		flag.Usage()
		os.Exit(2)
	}

	raw, err := dataprocessing.ReadTable(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledgerlint: %v\n", err)
		os.Exit(1)
	}

	diags := &dataprocessing.Diagnostics{}
	_, resolveErr := dataprocessing.ResolveLedgerColumns(raw.Headers, diags)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tCOLUMN\tSTATUS")
	for _, rec := range diags.Records {
		switch {
		case rec.Dropped:
			fmt.Fprintf(w, "%s\t%s\tdropped duplicate\n", rec.Field, rec.Column)
		case rec.Matched:
			fmt.Fprintf(w, "%s\t%s\tok\n", rec.Field, rec.Column)
		default:
			fmt.Fprintf(w, "%s\t-\tmissing (tried: %s)\n", rec.Field, strings.Join(rec.Candidates, ", "))
		}
	}
	w.Flush()

	if resolveErr != nil {
		fmt.Fprintf(os.Stderr, "\nledgerlint: %v\n", resolveErr)
		os.Exit(1)
	}
}
