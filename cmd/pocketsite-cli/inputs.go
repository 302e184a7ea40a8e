package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/pocketsite/pocketsite"
)

// inputFlags are shared by every command that reads both prediction tables.
type inputFlags struct {
	prankPath     string
	gassPath      string
	where         []string
	ranges        []string
	skipMalformed bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prankPath, "prank", "", "PRANK residue level predictions (CSV)")
	cmd.Flags().StringVar(&f.gassPath, "gass", "", "GASS active site predictions (tab separated)")
	cmd.Flags().StringArrayVar(&f.where, "where", nil, "Keep rows whose column is one of the values, e.g. EC1=3,4 (repeatable)")
	cmd.Flags().StringArrayVar(&f.ranges, "range", nil, "Keep rows whose numeric column is within min:max, e.g. FITNESS=0.5:1 (repeatable)")
	cmd.Flags().BoolVar(&f.skipMalformed, "skip-malformed", false, "Skip malformed active site entries instead of failing")
}

// provided reports whether any input or filter flag was set.
func (f *inputFlags) provided() bool {
	return f.prankPath != "" || f.gassPath != "" || len(f.where) > 0 || len(f.ranges) > 0
}

func (f *inputFlags) validate() error {
	f.prankPath = strings.TrimSpace(f.prankPath)
	f.gassPath = strings.TrimSpace(f.gassPath)
	if f.prankPath == "" {
		return errors.New("missing required --prank file")
	}
	if f.gassPath == "" {
		return errors.New("missing required --gass file")
	}
	return nil
}

func (f *inputFlags) filter() (*pocketsite.Filter, error) {
	filter := pocketsite.NewFilter()
	for _, expr := range f.where {
		col, values, err := pocketsite.ParseValuesExpr(expr)
		if err != nil {
			return nil, err
		}
		if err := filter.SetValues(col, values); err != nil {
			return nil, err
		}
	}
	for _, expr := range f.ranges {
		col, r, err := pocketsite.ParseRangeExpr(expr)
		if err != nil {
			return nil, err
		}
		if err := filter.SetRange(col, r.Min, r.Max); err != nil {
			return nil, err
		}
	}
	return filter, nil
}

// loadedTables is the outcome of reading, merging and filtering both inputs.
type loadedTables struct {
	service  *pocketsite.Service
	merged   *pocketsite.MergedTable
	filtered *pocketsite.MergedTable
	stats    pocketsite.MergeStats
	filter   *pocketsite.Filter
}

func (c *cli) loadTables(f *inputFlags) (*loadedTables, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	filter, err := f.filter()
	if err != nil {
		return nil, err
	}
	cfg, err := pocketsite.LoadConfig(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.skipMalformed {
		cfg.SkipMalformed = true
	}
	svc := pocketsite.NewService(cfg, c.logger)
	if err := svc.LoadResiduesFile(f.prankPath); err != nil {
		return nil, err
	}
	if err := svc.LoadActiveSitesFile(f.gassPath); err != nil {
		return nil, err
	}
	merged, stats, err := svc.Merged()
	if err != nil {
		return nil, err
	}
	filtered, err := svc.Filtered(filter)
	if err != nil {
		return nil, err
	}
	return &loadedTables{service: svc, merged: merged, filtered: filtered, stats: stats, filter: filter}, nil
}
