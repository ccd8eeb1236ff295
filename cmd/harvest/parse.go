package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	pipeline, profile, err := c.pipeline(deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	run := &harvest.Run{
		Profile:   profile.Name,
		URLs:      c.Files,
		StartedAt: time.Now(),
		Results:   []*harvest.Result{},
	}

	for _, file := range c.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}

		baseURL := c.BaseURL
		if baseURL == "" {
			if abs, err := filepath.Abs(file); err == nil {
				baseURL = "file://" + filepath.ToSlash(abs)
			}
		}

		res := pipeline.ProcessHTML(string(data), baseURL)
		fmt.Fprintf(deps.Stdout, "  %s: %d records\n", file, res.TotalRecords)
		for _, e := range res.Errors {
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", file, e.Message)
		}
		run.Add(res)
	}
	run.FinishedAt = time.Now()

	return finishRun(deps, run, c.OutputFlags)
}
