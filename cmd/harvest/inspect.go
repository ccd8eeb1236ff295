package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/gate"
	"github.com/fwojciec/harvest/goquery"
	"github.com/fwojciec/harvest/htmltomarkdown"
	"github.com/fwojciec/harvest/readability"
	"github.com/fwojciec/harvest/trafilatura"
)

// Run executes the inspect command.
func (c *InspectCmd) Run(deps *Dependencies) error {
	if err := crawl.ValidateURL(c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	resp := crawl.FetchWithRetry(deps.Ctx, deps.Fetcher, c.URL, crawl.DefaultRetryDelays(), nil)
	if v := gate.New(gate.DefaultConfig()).Classify(resp); !v.OK() {
		fmt.Fprintf(deps.Stderr, "error: %s\n", v.Blocked.Message)
		if v.Blocked.Suggestion != "" {
			fmt.Fprintf(deps.Stderr, "suggestion: %s\n", v.Blocked.Suggestion)
		}
		return v.Blocked
	}

	inspector := goquery.NewInspector()
	switch c.Extractor {
	case "readability":
		inspector.Extractor = readability.NewExtractor()
	default:
		inspector.Extractor = trafilatura.NewExtractor()
	}
	if c.Markdown {
		inspector.Converter = htmltomarkdown.NewConverter()
	}

	info, err := inspector.Inspect(resp.Body, resp.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}
	info.StatusCode = resp.StatusCode

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
