// Package trafilatura locates the main content of a page with
// go-trafilatura. It backs the page inspector when no CMS content selector
// matches.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements harvest.ContentExtractor at compile time.
var _ harvest.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with fallback extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract returns the main content of rawHTML as text and HTML.
func (e *Extractor) Extract(rawHTML string) (*harvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &harvest.ExtractResult{
		Title:       result.Metadata.Title,
		Text:        result.ContentText,
		ContentHTML: contentHTML,
	}, nil
}
