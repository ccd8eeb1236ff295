package harvest

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// currencySymbols are stripped from amounts before parsing.
const currencySymbols = "$€£¥"

// ToAmount converts a display amount such as "$1,234,567.00" to a number.
// It reports false, never an error, when the text is not a number.
func ToAmount(text string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, text)
	if cleaned == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ToDate parses a display date such as "April 28, 2020". The result is in
// UTC. It reports false when no date can be recognized.
func ToDate(text string) (time.Time, bool) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(cleaned, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanText trims s and collapses internal runs of whitespace to a single
// space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
