package dataprocessing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildYearlyComparison_StablePriceReadsZero(t *testing.T) {
	// The same unit price every year compares flat against the target
	raw := rawTable(ledgerHeaders,
		ledgerRow("06/10/2022", "80", "10", "P-1"),
		ledgerRow("06/10/2023", "80", "10", "P-1"),
		ledgerRow("06/10/2024", "80", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	yt := BuildYearlyComparison(ledger, ViewSimple, 2022, 2024, 2024)
	require.NotNil(t, yt)

	idWidth := len(PriceIdentityColumns(ViewSimple))
	require.Equal(t, []string{
		"Price Change % vs 2024 [2022]",
		"Price Change % vs 2024 [2023]",
		"Price Change % vs 2024 [2024]",
	}, yt.Comparison.Columns[idWidth:])

	for p := 0; p < 3; p++ {
		assert.True(t, cellNumber(t, yt.Comparison.Rows[0][idWidth+p]).IsZero(), "year %d", p)
	}
}

func TestBuildYearlyComparison_TargetOverYearMinusOne(t *testing.T) {
	raw := rawTable(ledgerHeaders,
		ledgerRow("06/10/2023", "100", "10", "P-1"),
		ledgerRow("06/10/2024", "120", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	yt := BuildYearlyComparison(ledger, ViewSimple, 2023, 2024, 2024)
	require.NotNil(t, yt)

	idWidth := len(PriceIdentityColumns(ViewSimple))
	// 12 against 10 reads +0.2 for 2023, flat for 2024
	assert.True(t, cellNumber(t, yt.Comparison.Rows[0][idWidth]).Equal(decimal.RequireFromString("0.2")))
	assert.True(t, cellNumber(t, yt.Comparison.Rows[0][idWidth+1]).IsZero())
}

func TestBuildYearlyComparison_TargetOutsideRange(t *testing.T) {
	raw := rawTable(ledgerHeaders,
		ledgerRow("06/10/2022", "100", "10", "P-1"),
		ledgerRow("06/10/2025", "150", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	yt := BuildYearlyComparison(ledger, ViewSimple, 2022, 2023, 2025)
	require.NotNil(t, yt)

	idWidth := len(PriceIdentityColumns(ViewSimple))
	// Price axis includes the target year after the range
	assert.Equal(t, []string{"2022", "2023", "2025"}, yt.Prices.Columns[idWidth:])
	// Comparison columns cover the range only
	require.Len(t, yt.Comparison.Columns[idWidth:], 2)

	// 15 vs 10 for 2022, and vs the carried 10 for 2023
	half := decimal.RequireFromString("0.5")
	assert.True(t, cellNumber(t, yt.Comparison.Rows[0][idWidth]).Equal(half))
	assert.True(t, cellNumber(t, yt.Comparison.Rows[0][idWidth+1]).Equal(half))
}

func TestBuildYearlyComparison_FilledPricesAndMask(t *testing.T) {
	raw := rawTable(ledgerHeaders,
		ledgerRow("06/10/2022", "100", "10", "P-1"),
		ledgerRow("06/10/2024", "200", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	yt := BuildYearlyComparison(ledger, ViewSimple, 2022, 2024, 2024)
	require.NotNil(t, yt)

	idWidth := len(PriceIdentityColumns(ViewSimple))
	row := yt.Prices.Rows[0]
	assert.True(t, cellNumber(t, row[idWidth+1]).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, []bool{false, true, false}, yt.PricesMask.Rows[0][idWidth:])
}

func TestBuildYearlyComparison_VolumeZeroForEmptyYears(t *testing.T) {
	raw := rawTable(ledgerHeaders,
		ledgerRow("06/10/2022", "100", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	yt := BuildYearlyComparison(ledger, ViewSimple, 2022, 2023, 2023)
	require.NotNil(t, yt)

	idWidth := len(VolumeIdentityColumns(ViewSimple))
	row := yt.Volumes.Rows[0]
	assert.True(t, cellNumber(t, row[idWidth]).Equal(decimal.NewFromInt(10)))
	assert.True(t, cellNumber(t, row[idWidth+1]).IsZero())
}

func TestBuildYearlyComparison_RequiresQuantity(t *testing.T) {
	// Rows without a parseable quantity are excluded from yearly analysis
	raw := rawTable(ledgerHeaders,
		ledgerRow("06/10/2022", "100", "bad", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	assert.Nil(t, BuildYearlyComparison(ledger, ViewSimple, 2022, 2023, 2023))
}
