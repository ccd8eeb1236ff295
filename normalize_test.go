package harvest_test

import (
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"$1,234,567.00", 1234567, true},
		{"$ 20,833", 20833, true},
		{"€1.5", 1.5, true},
		{"150000", 150000, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"$", 0, false},
		{"Pending", 0, false},
		{"$1e400", 0, false},
		{"-1e400", 0, false},
		{"1.5e3", 1500, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			got, ok := harvest.ToAmount(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestToDate(t *testing.T) {
	t.Parallel()

	t.Run("parses display dates", func(t *testing.T) {
		t.Parallel()

		got, ok := harvest.ToDate("April 28, 2020")
		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 4, 28, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("collapses whitespace first", func(t *testing.T) {
		t.Parallel()

		got, ok := harvest.ToDate("  May   1,  2020 ")
		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rejects non-dates", func(t *testing.T) {
		t.Parallel()

		_, ok := harvest.ToDate("")
		assert.False(t, ok)
		_, ok = harvest.ToDate("Loan Forgiven")
		assert.False(t, ok)
	})
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme LLC", harvest.CleanText("\n  Acme \t LLC  "))
	assert.Empty(t, harvest.CleanText(" \n\t "))
}
