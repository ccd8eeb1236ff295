package mock

import "github.com/fwojciec/harvest"

var _ harvest.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of harvest.RecordExtractor.
type RecordExtractor struct {
	ExtractFn func(doc harvest.Node, baseURL string) *harvest.Result
}

func (e *RecordExtractor) Extract(doc harvest.Node, baseURL string) *harvest.Result {
	return e.ExtractFn(doc, baseURL)
}

var _ harvest.Processor = (*Processor)(nil)

// Processor is a mock implementation of harvest.Processor.
type Processor struct {
	ProcessResponseFn func(resp *harvest.Response) *harvest.Result
	ProcessHTMLFn     func(html, baseURL string) *harvest.Result
}

func (p *Processor) ProcessResponse(resp *harvest.Response) *harvest.Result {
	return p.ProcessResponseFn(resp)
}

func (p *Processor) ProcessHTML(html, baseURL string) *harvest.Result {
	return p.ProcessHTMLFn(html, baseURL)
}

var _ harvest.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of harvest.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*harvest.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*harvest.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ harvest.Converter = (*Converter)(nil)

// Converter renders page content HTML as Markdown through ConvertFn.
type Converter struct {
	ConvertFn func(contentHTML string) (string, error)
}

func (c *Converter) Convert(contentHTML string) (string, error) {
	return c.ConvertFn(contentHTML)
}
