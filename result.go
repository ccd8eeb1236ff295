package harvest

import (
	"context"
	"time"
)

// Result is the outcome of processing one document. It is built by a single
// extraction pass and not modified after it is returned.
type Result struct {
	URL          string       `json:"url,omitempty"`
	SearchQuery  string       `json:"search_query"`
	ResultHeader string       `json:"result_header"`
	TotalRecords int          `json:"total_records"`
	Records      []*Record    `json:"records"`
	Errors       []*ItemError `json:"errors"`
	ContentHash  string       `json:"content_hash,omitempty"`
	ParsedAt     time.Time    `json:"parsed_at"`
}

// NewResult returns an empty result for url.
func NewResult(url string, parsedAt time.Time) *Result {
	return &Result{
		URL:      url,
		Records:  []*Record{},
		Errors:   []*ItemError{},
		ParsedAt: parsedAt,
	}
}

// AddRecord appends a record and updates the total.
func (r *Result) AddRecord(rec *Record) {
	r.Records = append(r.Records, rec)
	r.TotalRecords = len(r.Records)
}

// AddError appends an entry to the error ledger.
func (r *Result) AddError(err *ItemError) {
	r.Errors = append(r.Errors, err)
}

// Blocked reports whether the document was stopped by a document-scoped
// error before extraction.
func (r *Result) Blocked() bool {
	for _, e := range r.Errors {
		if e.Kind.Scope() == ScopeDocument {
			return true
		}
	}
	return false
}

// RecordExtractor drives record extraction over one parsed document.
type RecordExtractor interface {
	// Extract never fails; every problem is recorded in the returned
	// result's error ledger.
	Extract(doc Node, baseURL string) *Result
}

// Processor turns a fetched response or saved HTML into a result.
type Processor interface {
	ProcessResponse(resp *Response) *Result
	ProcessHTML(html, baseURL string) *Result
}

// Run is a batch of documents processed together.
type Run struct {
	ID           string    `json:"id,omitempty"`
	Profile      string    `json:"profile"`
	URLs         []string  `json:"urls"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Results      []*Result `json:"results"`
	TotalRecords int       `json:"total_records"`
	TotalErrors  int       `json:"total_errors"`
	Success      bool      `json:"success"`
}

// Add merges a completed document result into the run.
func (r *Run) Add(res *Result) {
	r.Results = append(r.Results, res)
	r.TotalRecords += res.TotalRecords
	r.TotalErrors += len(res.Errors)
	r.Success = r.TotalRecords > 0
}

// Validate returns an error if the run cannot be stored.
func (r *Run) Validate() error {
	if r.Profile == "" {
		return Errorf(EINVALID, "run profile required")
	}
	if r.StartedAt.IsZero() {
		return Errorf(EINVALID, "run start time required")
	}
	return nil
}

// RunService persists runs.
type RunService interface {
	// CreateRun stores a run with its results and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run with all results.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves run summaries, newest first. Results are not loaded.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun removes a run and everything stored with it.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Profile *string `json:"profile"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunWriter writes a run to an output destination.
type RunWriter interface {
	WriteRun(ctx context.Context, run *Run) (path string, err error)
}
