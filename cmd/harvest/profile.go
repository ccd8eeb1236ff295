package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/extract"
	"github.com/fwojciec/harvest/gate"
	"github.com/fwojciec/harvest/goquery"
	hslog "github.com/fwojciec/harvest/slog"
	"gopkg.in/yaml.v3"
)

// fileConfig is the layout of a --profile-file document.
type fileConfig struct {
	Profile *harvest.Profile `yaml:"profile"`
	Gate    *gate.Config     `yaml:"gate"`
}

// loadFileConfig reads a profile file. A missing profile section is an
// error; a missing gate section keeps the defaults.
func loadFileConfig(path string) (*harvest.Profile, gate.Config, error) {
	cfg := gate.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cfg, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, cfg, harvest.Errorf(harvest.EINVALID, "invalid profile file %s: %v", path, err)
	}
	if fc.Profile == nil {
		return nil, cfg, harvest.Errorf(harvest.EINVALID, "profile file %s has no profile section", path)
	}
	if fc.Gate != nil {
		cfg = cfg.Merge(*fc.Gate)
	}
	return fc.Profile, cfg, nil
}

// resolve returns the selected profile and gate policy.
func (f *ProfileFlags) resolve() (*harvest.Profile, gate.Config, error) {
	if f.ProfileFile != "" {
		return loadFileConfig(f.ProfileFile)
	}
	p, err := harvest.BuiltinProfile(f.Profile)
	if err != nil {
		return nil, gate.Config{}, err
	}
	return p, gate.DefaultConfig(), nil
}

// pipeline builds the processing pipeline for the selected profile.
func (f *ProfileFlags) pipeline(logger *slog.Logger) (*crawl.Pipeline, *harvest.Profile, error) {
	profile, cfg, err := f.resolve()
	if err != nil {
		return nil, nil, err
	}

	var opts []extract.Option
	if f.NoHeuristic {
		opts = append(opts, extract.WithoutHeuristics())
	}
	extractor, err := extract.New(profile, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("profile %q: %w", profile.Name, err)
	}

	return &crawl.Pipeline{
		Gate:      hslog.NewLoggingGate(gate.New(cfg), logger),
		Parser:    goquery.NewParser(),
		Extractor: hslog.NewLoggingExtractor(extractor, logger),
	}, profile, nil
}
