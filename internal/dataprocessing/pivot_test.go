package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nd(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func null() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func TestForwardFill(t *testing.T) {
	tests := []struct {
		name     string
		in       []decimal.NullDecimal
		want     []decimal.NullDecimal
		wantMask []bool
	}{
		{
			name:     "fills trailing gaps",
			in:       []decimal.NullDecimal{nd(10), null(), null()},
			want:     []decimal.NullDecimal{nd(10), nd(10), nd(10)},
			wantMask: []bool{false, true, true},
		},
		{
			name:     "leading gap stays null",
			in:       []decimal.NullDecimal{null(), nd(5), null()},
			want:     []decimal.NullDecimal{null(), nd(5), nd(5)},
			wantMask: []bool{false, false, true},
		},
		{
			name:     "observed values untouched",
			in:       []decimal.NullDecimal{nd(1), nd(2), nd(3)},
			want:     []decimal.NullDecimal{nd(1), nd(2), nd(3)},
			wantMask: []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := forwardFill(tt.in)
			assert.Equal(t, tt.wantMask, mask)
			require.Len(t, tt.in, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Valid, tt.in[i].Valid, "cell %d", i)
				if tt.want[i].Valid {
					assert.True(t, tt.in[i].Decimal.Equal(tt.want[i].Decimal), "cell %d", i)
				}
			}
		})
	}
}

func TestMonthsBetween_Dense(t *testing.T) {
	first := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	months := monthsBetween(first, last)
	require.Len(t, months, 4)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), months[0])
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), months[3])
}

func TestMonthsBetween_CrossesYear(t *testing.T) {
	first := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	months := monthsBetween(first, last)
	require.Len(t, months, 4)
	assert.Equal(t, "12/01/2023", months[1].Format(monthHeaderLayout))
}

func TestBuildPivot_MeanAndSum(t *testing.T) {
	raw := rawTable(ledgerHeaders,
		ledgerRow("01/10/2024", "100", "10", "P-1"),
		ledgerRow("01/20/2024", "200", "10", "P-1"),
		ledgerRow("02/10/2024", "300", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	months := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	periodOf := monthIndexer(months)

	mean := buildPivot(ledger.Rows, PriceIdentityColumns(ViewDetailed), 2, periodOf,
		func(r *LedgerRow) decimal.NullDecimal { return r.UnitPrice }, pivotMean)
	require.Len(t, mean, 1)
	// January averages unit prices 10 and 20
	assert.True(t, mean[0].cells[0].Decimal.Equal(decimal.NewFromInt(15)))
	assert.True(t, mean[0].cells[1].Decimal.Equal(decimal.NewFromInt(30)))

	sum := buildPivot(ledger.Rows, VolumeIdentityColumns(ViewDetailed), 2, periodOf,
		func(r *LedgerRow) decimal.NullDecimal { return r.Quantity }, pivotSum)
	require.Len(t, sum, 1)
	assert.True(t, sum[0].cells[0].Decimal.Equal(decimal.NewFromInt(20)))
	assert.True(t, sum[0].cells[1].Decimal.Equal(decimal.NewFromInt(10)))
}

func TestBuildPivot_RowsSortedByIdentity(t *testing.T) {
	raw := rawTable(ledgerHeaders,
		ledgerRow("01/10/2024", "100", "10", "P-2"),
		ledgerRow("01/10/2024", "100", "10", "P-1"),
	)
	ledger, err := Normalize(raw, nil)
	require.NoError(t, err)

	months := []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rows := buildPivot(ledger.Rows, PriceIdentityColumns(ViewSimple), 1, monthIndexer(months),
		func(r *LedgerRow) decimal.NullDecimal { return r.UnitPrice }, pivotMean)

	require.Len(t, rows, 2)
	assert.Equal(t, "P-1", rows[0].identity[0])
	assert.Equal(t, "P-2", rows[1].identity[0])
}
