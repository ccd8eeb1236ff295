// Package readability locates the main content of a page with
// go-readability. It is the alternative to the trafilatura extractor for
// pages where the article scoring of readability works better.
package readability

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/go-shiori/go-readability"
)

var _ harvest.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable article in rawHTML.
func (e *Extractor) Extract(rawHTML string) (*harvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &harvest.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		Text:        strings.TrimSpace(article.TextContent),
		ContentHTML: strings.TrimSpace(article.Content),
	}, nil
}
