package crawl

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/gate"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether resp describes a failure worth retrying:
// timeouts, refused or dropped connections, and transient server statuses.
// DNS and TLS failures are permanent.
func Retryable(resp *harvest.Response) bool {
	if resp.Err != nil {
		switch gate.ClassifyTransport(resp.Err) {
		case harvest.TransportTimeout, harvest.TransportConnectionRefused, harvest.TransportOther:
			return true
		}
		return false
	}
	switch resp.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// FetchWithRetry fetches url, retrying retryable failures after each of
// delays in turn. The last response is returned whether or not it
// succeeded. The logger function, if provided, is called for each retry.
func FetchWithRetry(ctx context.Context, f harvest.Fetcher, url string, delays []time.Duration, logger LogFunc) *harvest.Response {
	var resp *harvest.Response
	for attempt := 0; ; attempt++ {
		resp = f.Fetch(ctx, url)
		if !Retryable(resp) || attempt >= len(delays) {
			return resp
		}

		if ctx.Err() != nil {
			return resp
		}

		if logger != nil {
			reason := any(resp.Err)
			if resp.Err == nil {
				reason = resp.StatusCode
			}
			logger("retry %s (attempt %d): %v", url, attempt+2, reason)
		}

		select {
		case <-ctx.Done():
			return resp
		case <-time.After(delays[attempt]):
		}
	}
}
