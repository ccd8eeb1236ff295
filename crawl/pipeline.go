package crawl

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
)

// Ensure Pipeline implements harvest.Processor at compile time.
var _ harvest.Processor = (*Pipeline)(nil)

// Pipeline runs one document through gate, parser, and extractor. Each
// call owns its result; a Pipeline is safe for concurrent use when its
// components are.
type Pipeline struct {
	Gate      harvest.Gate
	Parser    harvest.Parser
	Extractor harvest.RecordExtractor
	Now       func() time.Time
}

// ProcessResponse classifies resp and, if it passes the gate, extracts its
// records. A blocked response yields a result with exactly one error.
func (p *Pipeline) ProcessResponse(resp *harvest.Response) *harvest.Result {
	if v := p.Gate.Classify(resp); !v.OK() {
		url := ""
		if resp != nil {
			url = resp.URL
		}
		res := harvest.NewResult(url, p.now())
		res.AddError(v.Blocked)
		return res
	}
	return p.ProcessHTML(resp.Body, resp.URL)
}

// ProcessHTML extracts records from already-fetched HTML.
func (p *Pipeline) ProcessHTML(html, baseURL string) *harvest.Result {
	doc, err := p.Parser.Parse(html)
	if err != nil {
		res := harvest.NewResult(baseURL, p.now())
		res.AddError(&harvest.ItemError{
			Kind:      harvest.KindExtraction,
			URL:       baseURL,
			Message:   fmt.Sprintf("failed to parse document: %v", err),
			Timestamp: p.now(),
		})
		return res
	}

	res := p.Extractor.Extract(doc, baseURL)
	res.ContentHash = hashContent(html)
	return res
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// hashContent returns the hex xxHash of content.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
