// Package slog provides logging decorators for harvest services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingFetcher implements harvest.Fetcher.
var _ harvest.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   harvest.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next harvest.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the response.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *harvest.Response) {
	defer func(begin time.Time) {
		if resp == nil {
			f.logger.Info("fetch", "url", url, "duration", time.Since(begin))
			return
		}
		f.logger.Info("fetch",
			"url", url,
			"status", resp.StatusCode,
			"bytes", len(resp.Body),
			"duration", time.Since(begin),
			"err", resp.Err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
