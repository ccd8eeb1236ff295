// Package fs writes run output to the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
)

// DefaultPrefix names output files when no prefix is configured.
const DefaultPrefix = "harvest_results"

// TimestampLayout formats the timestamp suffix of output file names.
const TimestampLayout = "20060102_150405"

// Ensure ResultWriter implements harvest.RunWriter at compile time.
var _ harvest.RunWriter = (*ResultWriter)(nil)

// ResultWriter writes runs as indented JSON files named
// <prefix>_<YYYYMMDD_HHMMSS>.json. Files are written to a temporary name
// and renamed into place, so readers never see a partial file.
type ResultWriter struct {
	dir    string
	prefix string
	now    func() time.Time
}

// Option configures a ResultWriter.
type Option func(*ResultWriter)

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return func(w *ResultWriter) {
		if prefix != "" {
			w.prefix = prefix
		}
	}
}

// WithClock sets the clock used for file name timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *ResultWriter) {
		w.now = now
	}
}

// NewResultWriter creates a ResultWriter that writes into dir.
func NewResultWriter(dir string, opts ...Option) *ResultWriter {
	w := &ResultWriter{
		dir:    dir,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FileName returns the file name used for a run written at t.
func (w *ResultWriter) FileName(t time.Time) string {
	return fmt.Sprintf("%s_%s.json", w.prefix, t.Format(TimestampLayout))
}

// WriteRun writes run and returns the path of the file written.
func (w *ResultWriter) WriteRun(ctx context.Context, run *harvest.Run) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode run: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", err
	}

	finalPath := filepath.Join(w.dir, w.FileName(w.now()))
	tmp, err := os.CreateTemp(w.dir, ".harvest-*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return finalPath, nil
}
