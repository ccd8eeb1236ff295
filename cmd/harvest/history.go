package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/harvest"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := harvest.Errorf(harvest.EINVALID, "run history is disabled")
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if c.Delete {
		if c.ID == "" {
			err := harvest.Errorf(harvest.EINVALID, "run ID required for --delete")
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
		return nil
	}

	if c.ID != "" {
		run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	filter := harvest.RunFilter{Limit: c.Limit}
	if c.Profile != "" {
		filter.Profile = &c.Profile
	}
	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'harvest scrape' to create one.")
		return nil
	}

	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "empty"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d records  %d errors  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Profile,
			r.TotalRecords, r.TotalErrors, status)
	}
	return nil
}
