package slog

import (
	"log/slog"

	"github.com/fwojciec/harvest"
)

var _ harvest.Gate = (*LoggingGate)(nil)

// LoggingGate wraps a Gate and logs every blocked response.
type LoggingGate struct {
	next   harvest.Gate
	logger *slog.Logger
}

// NewLoggingGate creates a new LoggingGate.
func NewLoggingGate(next harvest.Gate, logger *slog.Logger) *LoggingGate {
	return &LoggingGate{next: next, logger: logger}
}

// Classify delegates to the wrapped gate. Blocked verdicts are logged at
// warn level; passing responses at debug level.
func (g *LoggingGate) Classify(resp *harvest.Response) harvest.Verdict {
	v := g.next.Classify(resp)
	url := ""
	if resp != nil {
		url = resp.URL
	}
	if v.OK() {
		g.logger.Debug("gate", "url", url, "verdict", "proceed")
		return v
	}
	g.logger.Warn("gate",
		"url", url,
		"verdict", "blocked",
		"kind", v.Blocked.Kind,
		"status", v.Blocked.StatusCode,
		"message", v.Blocked.Message,
	)
	return v
}
