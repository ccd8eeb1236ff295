package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/gin"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	pipeline, profile, err := c.pipeline(deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	var opts []gin.Option
	if deps.Runs != nil {
		opts = append(opts, gin.WithRunService(deps.Runs))
	}
	srv := gin.NewServer(pipeline, pipeline.Gate, opts...)

	fmt.Fprintf(deps.Stdout, "Serving profile %q on %s\n", profile.Name, c.Addr)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}
