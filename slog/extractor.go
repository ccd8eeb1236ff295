package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

var _ harvest.RecordExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a RecordExtractor with logging of per-document
// record and error counts.
type LoggingExtractor struct {
	next   harvest.RecordExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next harvest.RecordExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(doc harvest.Node, baseURL string) (res *harvest.Result) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"url", baseURL,
			"records", res.TotalRecords,
			"errors", len(res.Errors),
			"duration", time.Since(begin),
		)
		for _, ie := range res.Errors {
			e.logger.Debug("extract error",
				"url", baseURL,
				"kind", ie.Kind,
				"index", ie.Index,
				"message", ie.Message,
			)
		}
	}(time.Now())
	return e.next.Extract(doc, baseURL)
}
