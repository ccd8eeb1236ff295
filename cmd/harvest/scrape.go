package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/fs"
)

// ErrNoRecords is returned when a run completes without extracting any
// record, so the process exits with a failure status.
var ErrNoRecords = errors.New("no records extracted")

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	pipeline, profile, err := c.pipeline(deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	runner := &crawl.Runner{
		Fetcher:     deps.Fetcher,
		Processor:   pipeline,
		RateLimiter: crawl.NewDomainLimiter(c.Rate, crawl.WithBurst(c.Burst)),
		Concurrency: c.Concurrency,
		Logger: func(format string, args ...any) {
			deps.Logger.Info(fmt.Sprintf(format, args...))
		},
	}
	if c.NoRetry {
		runner.RetryDelays = []time.Duration{}
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Processing %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: %d records\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 60), event.Records)
		case crawl.ProgressBlocked:
			for _, e := range event.Errors {
				fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, e.Message)
				if e.Suggestion != "" {
					fmt.Fprintf(deps.Stderr, "    suggestion: %s\n", e.Suggestion)
				}
			}
		}
	}

	run, err := runner.Run(deps.Ctx, profile.Name, c.URLs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	return finishRun(deps, run, c.OutputFlags)
}

// finishRun writes, records, and summarizes a completed run.
func finishRun(deps *Dependencies, run *harvest.Run, out OutputFlags) error {
	writer := deps.Writer
	if writer == nil {
		writer = fs.NewResultWriter(out.Output, fs.WithPrefix(out.Prefix))
	}
	path, err := writer.WriteRun(deps.Ctx, run)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write results: %v\n", err)
		return err
	}

	if deps.Runs != nil {
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: failed to record run: %s\n", harvest.ErrorMessage(err))
		}
	}

	fmt.Fprintln(deps.Stdout, crawl.Summary(run))
	fmt.Fprintf(deps.Stdout, "Results saved to %s\n", path)
	if run.ID != "" {
		fmt.Fprintf(deps.Stdout, "Run ID: %s\n", run.ID)
	}

	if !run.Success {
		return ErrNoRecords
	}
	return nil
}
