package crawl

import (
	"fmt"

	"github.com/fwojciec/harvest"
)

// TruncateURL shortens a URL for display, keeping the end, which usually
// carries the search query.
func TruncateURL(url string, maxLen int) string {
	switch {
	case maxLen <= 0:
		return ""
	case len(url) <= maxLen:
		return url
	case maxLen < 4:
		return url[:maxLen]
	}
	return "..." + url[len(url)-maxLen+3:]
}

// Summary describes a finished run in one line.
func Summary(run *harvest.Run) string {
	blocked := 0
	for _, res := range run.Results {
		if res.Blocked() {
			blocked++
		}
	}
	s := fmt.Sprintf("Extracted %d records from %d documents (%d errors", run.TotalRecords, len(run.Results), run.TotalErrors)
	if blocked > 0 {
		s += fmt.Sprintf(", %d blocked", blocked)
	}
	return s + ")"
}
