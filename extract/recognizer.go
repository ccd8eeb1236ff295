package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/harvest"
)

// Recognizer reports whether a candidate text has the shape of a value.
type Recognizer func(text string) bool

var recognizers = map[string]Recognizer{
	harvest.RecognizerMoney:    IsMoney,
	harvest.RecognizerDate:     IsDate,
	harvest.RecognizerStatus:   IsStatus,
	harvest.RecognizerLocation: IsLocation,
}

// RecognizerFor returns the recognizer registered under name.
func RecognizerFor(name string) (Recognizer, bool) {
	r, ok := recognizers[name]
	return r, ok
}

// IsMoney matches text that starts with a currency symbol.
func IsMoney(text string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(text))
	return strings.ContainsRune("$€£¥", r)
}

var monthTokens = []string{
	"Jan", "Feb", "March", "April", "May", "June",
	"July", "Aug", "Sept", "Oct", "Nov", "Dec",
}

// IsDate matches text containing a month name or abbreviation.
func IsDate(text string) bool {
	for _, m := range monthTokens {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

var statusKeywords = []string{"Forgiven", "Active", "Paid", "Exempt", "Cancelled"}

// IsStatus matches text containing a known loan status keyword.
func IsStatus(text string) bool {
	for _, k := range statusKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// IsLocation matches "City, ST": exactly two comma-separated parts where the
// second is a two-letter region code.
func IsLocation(text string) bool {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(parts[1])) == 2
}
