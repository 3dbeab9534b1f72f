package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppvcli/internal/dataprocessing"
)

func TestBuildOptions_ReportSelection(t *testing.T) {
	opts, err := buildOptions("ledger.csv", "simple", "summary,mom,swat", "", 0, "", "costs.csv", "", "")
	require.NoError(t, err)

	assert.Equal(t, dataprocessing.ViewSimple, opts.View)
	assert.True(t, opts.Reports.Summary)
	assert.True(t, opts.Reports.MoM)
	assert.True(t, opts.Reports.CostVariance)
	assert.False(t, opts.Reports.LastPaid)
	assert.Equal(t, "costs.csv", opts.CostMasterPath)
}

func TestBuildOptions_UnknownReport(t *testing.T) {
	_, err := buildOptions("ledger.csv", "detailed", "summary,bogus", "", 0, "", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestParseYearRange(t *testing.T) {
	yr, err := parseYearRange("2022-2024", 0)
	require.NoError(t, err)
	assert.Equal(t, 2022, yr.Start)
	assert.Equal(t, 2024, yr.End)
	// Target defaults to the range end
	assert.Equal(t, 2024, yr.Target)

	yr, err = parseYearRange("2022-2024", 2023)
	require.NoError(t, err)
	assert.Equal(t, 2023, yr.Target)

	_, err = parseYearRange("2022", 0)
	require.Error(t, err)

	_, err = parseYearRange("abc-2024", 0)
	require.Error(t, err)
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("01/01/2024:01/31/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), w.End)

	_, err = parseWindow("01/01/2024")
	require.Error(t, err)

	_, err = parseWindow("nope:01/31/2024")
	require.Error(t, err)
}
