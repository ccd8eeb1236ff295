package harvest

import (
	"context"
	"net/http"
)

// Response is a fetched page as seen by the gate. Err is set, and the other
// fields are zero, when the transport never produced a response.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       string
	Err        error
}

// Fetcher retrieves pages over the network.
type Fetcher interface {
	// Fetch performs a GET request. HTTP error statuses are returned as a
	// normal Response; only transport failures set Response.Err.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) *Response
}

// Gate classifies a response before any extraction is attempted.
type Gate interface {
	Classify(resp *Response) Verdict
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
