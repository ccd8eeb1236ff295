package extract_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/extract"
	"github.com/stretchr/testify/assert"
)

func TestRecognizers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		recognizer string
		text       string
		want       bool
	}{
		{"dollar amount", harvest.RecognizerMoney, "$1,234,567.00", true},
		{"euro amount", harvest.RecognizerMoney, "€12", true},
		{"leading space amount", harvest.RecognizerMoney, "  $5", true},
		{"plain number", harvest.RecognizerMoney, "1,234", false},
		{"empty money", harvest.RecognizerMoney, "", false},
		{"full month", harvest.RecognizerDate, "April 28, 2020", true},
		{"abbreviated month", harvest.RecognizerDate, "Aug 3, 2020", true},
		{"numeric date", harvest.RecognizerDate, "2020-04-28", false},
		{"forgiven", harvest.RecognizerStatus, "Loan Forgiven", true},
		{"paid", harvest.RecognizerStatus, "Paid in Full", true},
		{"lowercase keyword", harvest.RecognizerStatus, "active", false},
		{"city and state", harvest.RecognizerLocation, "Austin, TX", true},
		{"full state name", harvest.RecognizerLocation, "Some Place, Texas", false},
		{"three parts", harvest.RecognizerLocation, "Austin, Travis, TX", false},
		{"no comma", harvest.RecognizerLocation, "Austin TX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, ok := extract.RecognizerFor(tt.recognizer)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, tt.want, r(tt.text))
		})
	}
}

func TestRecognizerFor_Unknown(t *testing.T) {
	t.Parallel()

	_, ok := extract.RecognizerFor("zipcode")
	assert.False(t, ok)
}
