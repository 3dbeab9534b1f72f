package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(o *Options) {},
		},
		{
			name:    "missing ledger path",
			mutate:  func(o *Options) { o.LedgerPath = "" },
			wantErr: "LedgerPath",
		},
		{
			name:    "unknown view",
			mutate:  func(o *Options) { o.View = "granular" },
			wantErr: "View",
		},
		{
			name: "year range reversed",
			mutate: func(o *Options) {
				o.Years = &YearRange{Start: 2024, End: 2022, Target: 2024}
			},
			wantErr: "End",
		},
		{
			name: "cost variance without master",
			mutate: func(o *Options) {
				o.Reports.CostVariance = true
				o.Window = &DateWindow{
					Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
				}
			},
			wantErr: "cost master",
		},
		{
			name: "window reversed",
			mutate: func(o *Options) {
				o.Window = &DateWindow{
					Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				}
			},
			wantErr: "window end precedes start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions("ledger.csv")
			tt.mutate(&opts)

			err := opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("ledger.csv")

	assert.Equal(t, ViewDetailed, opts.View)
	assert.True(t, opts.Reports.Summary)
	assert.True(t, opts.Reports.LastPaid)
	// Parameterized reports stay off without their inputs
	assert.False(t, opts.Reports.YearlyComparison)
	assert.False(t, opts.Reports.CostVariance)
}
