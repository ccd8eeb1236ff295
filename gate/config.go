package gate

import "net/http"

// StatusInfo is the canonical name and remediation hint for an HTTP status.
type StatusInfo struct {
	Name       string `yaml:"name" json:"name"`
	Suggestion string `yaml:"suggestion" json:"suggestion"`
}

// Vendor identifies an edge-protection provider by its Server header token
// and the correlation header it adds to every response.
type Vendor struct {
	Name   string `yaml:"name" json:"name"`
	Server string `yaml:"server" json:"server"`
	Header string `yaml:"header" json:"header"`
}

// Config is the classification policy. It is data so that new challenge
// pages or vendors can be handled without code changes.
type Config struct {
	// AntiBotStatuses are treated as a challenge regardless of body.
	AntiBotStatuses []int `yaml:"antibot_statuses" json:"antibot_statuses"`

	// Fingerprints are matched case-insensitively against the body.
	Fingerprints []string `yaml:"fingerprints" json:"fingerprints"`

	Vendors []Vendor `yaml:"vendors" json:"vendors"`

	Statuses map[int]StatusInfo `yaml:"statuses" json:"statuses"`
}

// DefaultConfig returns the built-in policy.
func DefaultConfig() Config {
	return Config{
		AntiBotStatuses: []int{http.StatusServiceUnavailable, 520, 521, 522, 523, 524},
		Fingerprints: []string{
			"cf-browser-verification",
			"cf_chl_opt",
			"checking your browser",
			"ddos protection by cloudflare",
			"attention required! | cloudflare",
			"just a moment...",
		},
		Vendors: []Vendor{
			{Name: "Cloudflare", Server: "cloudflare", Header: "Cf-Ray"},
		},
		Statuses: map[int]StatusInfo{
			http.StatusBadRequest:          {"Bad Request", "The server couldn't understand the request. Check URL format."},
			http.StatusUnauthorized:        {"Unauthorized", "Authentication required. The page might need login credentials."},
			http.StatusForbidden:           {"Forbidden", "Access denied. The server refuses to fulfill the request."},
			http.StatusNotFound:            {"Not Found", "The requested page doesn't exist. Check if the URL is correct."},
			http.StatusTooManyRequests:     {"Too Many Requests", "Rate limited. Add delays between requests."},
			http.StatusInternalServerError: {"Internal Server Error", "Server-side error. The website might be experiencing issues."},
			http.StatusBadGateway:          {"Bad Gateway", "The server received an invalid response. Try again later."},
			http.StatusServiceUnavailable:  {"Service Unavailable", "Server temporarily unavailable. Could be maintenance or overload."},
		},
	}
}

// Merge returns c with every non-empty section of o replacing the
// corresponding section of c. Status entries are merged per code.
func (c Config) Merge(o Config) Config {
	if len(o.AntiBotStatuses) > 0 {
		c.AntiBotStatuses = o.AntiBotStatuses
	}
	if len(o.Fingerprints) > 0 {
		c.Fingerprints = o.Fingerprints
	}
	if len(o.Vendors) > 0 {
		c.Vendors = o.Vendors
	}
	if len(o.Statuses) > 0 {
		merged := make(map[int]StatusInfo, len(c.Statuses)+len(o.Statuses))
		for code, info := range c.Statuses {
			merged[code] = info
		}
		for code, info := range o.Statuses {
			merged[code] = info
		}
		c.Statuses = merged
	}
	return c
}
