package harvest

import (
	"fmt"
	"time"
)

// ErrorKind tags every failure recorded in a result's error ledger.
// The set is closed; Scope must handle every value.
type ErrorKind string

const (
	KindTransport  ErrorKind = "TransportError"
	KindAntiBot    ErrorKind = "AntiBotChallenge"
	KindHTTP       ErrorKind = "HTTPError"
	KindExtraction ErrorKind = "ExtractionError"
	KindNoRecords  ErrorKind = "NoRecordsFound"
)

// TransportKind narrows KindTransport to the failure that prevented a
// response from being received.
type TransportKind string

const (
	TransportDNS               TransportKind = "DNS"
	TransportTimeout           TransportKind = "Timeout"
	TransportConnectionRefused TransportKind = "ConnectionRefused"
	TransportTLS               TransportKind = "TLS"
	TransportOther             TransportKind = "Other"
)

// Scope describes how far an error of a given kind propagates.
type Scope int

const (
	// ScopeDocument errors end processing of the current document.
	ScopeDocument Scope = iota + 1
	// ScopeFragment errors are confined to one record fragment.
	ScopeFragment
	// ScopeAdvisory errors annotate a result without indicating a crash.
	ScopeAdvisory
)

// Scope returns the propagation scope of the kind.
func (k ErrorKind) Scope() Scope {
	switch k {
	case KindTransport, KindAntiBot, KindHTTP:
		return ScopeDocument
	case KindExtraction:
		return ScopeFragment
	case KindNoRecords:
		return ScopeAdvisory
	}
	panic(fmt.Sprintf("harvest: unknown error kind %q", string(k)))
}

// Valid reports whether k is a member of the taxonomy.
func (k ErrorKind) Valid() bool {
	switch k {
	case KindTransport, KindAntiBot, KindHTTP, KindExtraction, KindNoRecords:
		return true
	}
	return false
}

// ItemError is one entry in a result's error ledger.
type ItemError struct {
	Kind       ErrorKind     `json:"error_type"`
	Transport  TransportKind `json:"transport_kind,omitempty"`
	Index      int           `json:"index,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	URL        string        `json:"url,omitempty"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	switch {
	case e.Kind == KindTransport:
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Transport, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %d: %s", e.Kind, e.StatusCode, e.Message)
	case e.Index != 0:
		return fmt.Sprintf("%s at record %d: %s", e.Kind, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Verdict is the outcome of classifying a response before extraction.
// A nil Blocked means extraction may proceed.
type Verdict struct {
	Blocked *ItemError
}

// Proceed returns a verdict that allows extraction.
func Proceed() Verdict {
	return Verdict{}
}

// Block returns a verdict that stops extraction with err.
func Block(err *ItemError) Verdict {
	return Verdict{Blocked: err}
}

// OK reports whether extraction may proceed.
func (v Verdict) OK() bool {
	return v.Blocked == nil
}
