package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Fetcher harvest.Fetcher
	Runs    harvest.RunService

	// Writer overrides the result file writer built from OutputFlags.
	Writer harvest.RunWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" help:"Enable debug logging"`
	DB        string        `help:"Database path" env:"HARVEST_DB"`
	NoHistory bool          `help:"Do not record runs in the database"`
	Timeout   time.Duration `default:"30s" help:"HTTP request timeout"`

	Scrape  ScrapeCmd  `cmd:"" help:"Fetch pages and extract records"`
	Parse   ParseCmd   `cmd:"" help:"Extract records from saved HTML files"`
	Inspect InspectCmd `cmd:"" help:"Fetch a page and report its content and metadata"`
	History HistoryCmd `cmd:"" help:"List, show, or delete recorded runs"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extraction API over HTTP"`
}

// ProfileFlags select the extraction profile and gate policy.
type ProfileFlags struct {
	Profile     string `short:"P" default:"ppp-loans" env:"HARVEST_PROFILE" help:"Built-in profile name"`
	ProfileFile string `type:"existingfile" help:"YAML file with profile and gate settings (overrides --profile)"`
	NoHeuristic bool   `help:"Disable heuristic field recovery"`
}

// OutputFlags control where run results are written.
type OutputFlags struct {
	Output string `short:"o" default:"." type:"path" help:"Directory for result files"`
	Prefix string `default:"harvest_results" help:"Result file name prefix"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs []string `arg:"" name:"urls" help:"Search result page URLs"`
	ProfileFlags
	OutputFlags
	Concurrency int     `short:"c" default:"1" help:"Concurrent fetch limit"`
	Rate        float64 `default:"1" help:"Requests per second per host (0 disables)"`
	Burst       int     `default:"1" help:"Requests per host allowed back to back before pacing"`
	NoRetry     bool    `help:"Do not retry transient failures"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Files   []string `arg:"" name:"files" type:"existingfile" help:"Saved HTML files"`
	BaseURL string   `help:"URL used to resolve relative links"`
	ProfileFlags
	OutputFlags
}

// InspectCmd is the "inspect" subcommand.
type InspectCmd struct {
	URL       string `arg:"" help:"Page URL"`
	Markdown  bool   `help:"Render main content as markdown"`
	Extractor string `enum:"trafilatura,readability" default:"trafilatura" help:"Main content extractor used when no CMS selector matches (${enum})"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID      string `arg:"" optional:"" help:"Run ID to show"`
	Profile string `help:"Only list runs for this profile"`
	Limit   int    `short:"n" default:"20" help:"Maximum runs to list"`
	Delete  bool   `help:"Delete the run given by ID"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
	ProfileFlags
}
