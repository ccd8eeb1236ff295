// Package gate classifies fetched responses before extraction: transport
// failures, anti-bot challenges, and HTTP error statuses.
package gate

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure Gate implements harvest.Gate at compile time.
var _ harvest.Gate = (*Gate)(nil)

const antiBotSuggestion = "The site is protected by anti-bot measures.\n" +
	"1. Use a headless browser.\n" +
	"2. Use rotating proxies.\n" +
	"3. Add delays between requests."

// Gate applies a Config to responses. It is safe for concurrent use.
type Gate struct {
	cfg          Config
	antiBot      map[int]bool
	fingerprints []string
	now          func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock sets the clock used for error timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// New creates a Gate for cfg.
func New(cfg Config, opts ...Option) *Gate {
	g := &Gate{
		cfg:     cfg,
		antiBot: make(map[int]bool, len(cfg.AntiBotStatuses)),
		now:     time.Now,
	}
	for _, code := range cfg.AntiBotStatuses {
		g.antiBot[code] = true
	}
	for _, f := range cfg.Fingerprints {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			g.fingerprints = append(g.fingerprints, f)
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Classify returns the verdict for resp. Checks run in a fixed order and
// the first match wins.
func (g *Gate) Classify(resp *harvest.Response) harvest.Verdict {
	if resp == nil {
		return g.transport("", fmt.Errorf("no response"))
	}
	if resp.Err != nil {
		return g.transport(resp.URL, resp.Err)
	}

	if g.antiBot[resp.StatusCode] {
		return g.antiBotVerdict(resp, fmt.Sprintf("status %d is used by anti-bot gateways", resp.StatusCode))
	}

	body := strings.ToLower(resp.Body)
	for _, f := range g.fingerprints {
		if strings.Contains(body, f) {
			return g.antiBotVerdict(resp, fmt.Sprintf("challenge fingerprint %q found in body", f))
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		server := strings.ToLower(resp.Header.Get("Server"))
		for _, v := range g.cfg.Vendors {
			if v.Server == "" || !strings.Contains(server, strings.ToLower(v.Server)) {
				continue
			}
			if resp.Header.Get(v.Header) != "" {
				return g.antiBotVerdict(resp, fmt.Sprintf("%s edge rejected the request", v.Name))
			}
		}

		info, ok := g.cfg.Statuses[resp.StatusCode]
		if !ok {
			info = StatusInfo{
				Name:       fmt.Sprintf("HTTP Error %d", resp.StatusCode),
				Suggestion: "Unexpected HTTP error occurred.",
			}
		}
		return harvest.Block(&harvest.ItemError{
			Kind:       harvest.KindHTTP,
			StatusCode: resp.StatusCode,
			URL:        resp.URL,
			Message:    info.Name,
			Suggestion: info.Suggestion,
			Timestamp:  g.now(),
		})
	}

	return harvest.Proceed()
}

func (g *Gate) transport(url string, err error) harvest.Verdict {
	kind := ClassifyTransport(err)
	advice := transportMessages[kind]
	msg := advice.message
	if kind == harvest.TransportOther {
		msg = fmt.Sprintf("%s: %v", advice.message, err)
	}
	return harvest.Block(&harvest.ItemError{
		Kind:       harvest.KindTransport,
		Transport:  kind,
		URL:        url,
		Message:    msg,
		Suggestion: advice.suggestion,
		Timestamp:  g.now(),
	})
}

func (g *Gate) antiBotVerdict(resp *harvest.Response, reason string) harvest.Verdict {
	return harvest.Block(&harvest.ItemError{
		Kind:       harvest.KindAntiBot,
		StatusCode: resp.StatusCode,
		URL:        resp.URL,
		Message:    "Anti-bot challenge detected: " + reason,
		Suggestion: antiBotSuggestion,
		Timestamp:  g.now(),
	})
}
