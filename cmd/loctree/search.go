// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	flag "github.com/spf13/pflag"
	"fmt"
	"os"

	"github.com/loctreehq/loctree/internal/ui"
	"github.com/loctreehq/loctree/pkg/query"
)

// runSearch implements `loctree search <term>...`: exact, fuzzy, and
// dead-code facets over every file's exported symbols, joined across
// multiple terms per --join (spec §4.8).
func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	join := fs.String("join", string(query.JoinSplit), "Multi-term join mode: split|and|or")
	threshold := fs.Float64("fuzzy-threshold", 0, "Fuzzy similarity cutoff (0 = config default)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree search <term>... [--root <dir>] [--join split|and|or] [--json]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: search requires at least one term")
		fs.Usage()
		os.Exit(1)
	}
	terms := fs.Args()

	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, false, false, false)
	if err != nil {
		fail(cf, err)
	}

	results := query.MultiSearch(snap, terms, query.JoinMode(*join), *threshold)
	if cf.jsonOut || cf.jsonl || cf.outPath != "" {
		if cf.jsonl {
			if err := writeJSONLines(cf, results); err != nil {
				fail(cf, err)
			}
			return
		}
		if err := writeJSON(cf, results); err != nil {
			fail(cf, err)
		}
		return
	}

	for _, res := range results {
		ui.Header("Search: " + res.Query)
		for _, h := range res.Exact {
			fmt.Printf("  exact    %s  %s:%s\n", h.Symbol, h.File, ui.Severity(deadLabel(h.Dead)))
		}
		for _, h := range res.Fuzzy {
			fmt.Printf("  fuzzy    %s  %s (%.2f)\n", h.Symbol, h.File, h.Similarity)
		}
	}
}

func deadLabel(dead bool) string {
	if dead {
		return "high"
	}
	return "low"
}
