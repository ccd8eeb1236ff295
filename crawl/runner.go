// Package crawl drives documents through the extraction pipeline: it
// fetches pages politely, retries transient failures, and merges each
// document's isolated result into a run.
package crawl

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents fetched at once.
const DefaultConcurrency = 1

// Runner processes a batch of URLs.
type Runner struct {
	Fetcher     harvest.Fetcher
	Processor   harvest.Processor
	RateLimiter harvest.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration // nil means DefaultRetryDelays; empty disables retries
	Logger      LogFunc
	Now         func() time.Time
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Records   int
	Errors    []*harvest.ItemError
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressBlocked
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress. It is called from
// one goroutine at a time.
type ProgressFunc func(event ProgressEvent)

// ValidateURL returns an EINVALID error unless rawURL is an absolute http
// or https URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return harvest.Errorf(harvest.EINVALID, "URL parsing error: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return harvest.Errorf(harvest.EINVALID,
			"invalid URL format: %q. URL must include scheme (http/https) and domain. Example: https://example.com", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return harvest.Errorf(harvest.EINVALID,
			"invalid URL scheme: %q. Only 'http' and 'https' schemes are supported", u.Scheme)
	}
	return nil
}

// Run fetches and processes urls. Duplicate URLs are processed once.
// Every document is processed in isolation and its result is merged into
// the run only after it completes, in input order. A failing document
// never stops the batch; Run returns an error only for invalid input or
// cancellation.
func (r *Runner) Run(ctx context.Context, profile string, urls []string, progress ProgressFunc) (*harvest.Run, error) {
	for _, u := range urls {
		if err := ValidateURL(u); err != nil {
			return nil, err
		}
	}

	seen := bloom.NewForBatch(len(urls))
	var unique []string
	for _, u := range urls {
		if seen.FirstSeen(u) {
			unique = append(unique, u)
		}
	}

	run := &harvest.Run{
		Profile:   profile,
		URLs:      unique,
		StartedAt: r.now(),
		Results:   []*harvest.Result{},
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	total := len(unique)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	type indexed struct {
		position int
		result   *harvest.Result
	}
	resultCh := make(chan indexed, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range unique {
			g.Go(func() error {
				resultCh <- indexed{position: i, result: r.process(gctx, u, delays)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]*harvest.Result, total)
	var completed atomic.Int64
	for ir := range resultCh {
		results[ir.position] = ir.result
		n := int(completed.Add(1))
		if progress == nil {
			continue
		}
		typ := ProgressCompleted
		if ir.result.Blocked() {
			typ = ProgressBlocked
		}
		progress(ProgressEvent{
			Type:      typ,
			Completed: n,
			Total:     total,
			URL:       ir.result.URL,
			Records:   ir.result.TotalRecords,
			Errors:    ir.result.Errors,
		})
	}

	for _, res := range results {
		run.Add(res)
	}
	run.FinishedAt = r.now()

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total, Records: run.TotalRecords})
	}

	if err := ctx.Err(); err != nil {
		return run, err
	}
	return run, nil
}

// process fetches and processes one document.
func (r *Runner) process(ctx context.Context, rawURL string, delays []time.Duration) *harvest.Result {
	if r.RateLimiter != nil {
		u, _ := url.Parse(rawURL)
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			return r.Processor.ProcessResponse(&harvest.Response{URL: rawURL, Err: err})
		}
	}

	resp := FetchWithRetry(ctx, r.Fetcher, rawURL, delays, r.Logger)
	res := r.Processor.ProcessResponse(resp)
	if res.URL == "" {
		res.URL = rawURL
	}
	return res
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
