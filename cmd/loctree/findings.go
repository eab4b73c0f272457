// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	flag "github.com/spf13/pflag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loctreehq/loctree/internal/errors"
	"github.com/loctreehq/loctree/internal/ui"
	"github.com/loctreehq/loctree/pkg/aggregate"
	"github.com/loctreehq/loctree/pkg/coverage"
)

// runFindings implements `loctree findings`: build the aggregated
// Findings artifact against the persisted snapshot and optionally
// trip one of the CI-style fail gates (spec §4.9/§6).
func runFindings(args []string) {
	fs := flag.NewFlagSet("findings", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	failStale := fs.Bool("fail-stale", false, "Fail if the snapshot predates the current git HEAD")
	failMissingHandlers := fs.Bool("fail-on-missing-handlers", false, "Exit 2 if any frontend invoke has no backend handler")
	failGhostEvents := fs.Bool("fail-on-ghost-events", false, "Exit 2 if any emit/listen has no counterpart")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree findings [--root <dir>] [--json] [--fail-on-missing-handlers] [--fail-on-ghost-events]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, *failStale, false, false)
	if err != nil {
		fail(cf, err)
	}
	cfg, ignoreRules := mustLoadConfig(root)

	f := aggregate.Build(aggregate.Inputs{Root: root, Files: snap.Files, Edges: snap.Edges, Config: cfg, IgnoreRules: ignoreRules})

	if *failMissingHandlers {
		cmds := coverage.Commands(snap.Files, cfg)
		for _, g := range cmds.Gaps {
			if g.Kind == "missing_handler" {
				fail(cf, errors.NewFailGateError("frontend invoke has no backend handler",
					fmt.Sprintf("%s (%s)", g.Name, g.NormalizedName)))
			}
		}
	}
	if *failGhostEvents {
		events := coverage.Events(snap.Files)
		if len(events.Gaps) > 0 {
			fail(cf, errors.NewFailGateError("event emit/listen mismatch found",
				fmt.Sprintf("%s: %s", events.Gaps[0].Kind, events.Gaps[0].Name)))
		}
	}

	if cf.jsonOut || cf.jsonl || cf.outPath != "" {
		if err := writeJSON(cf, f); err != nil {
			fail(cf, err)
		}
		return
	}

	printFindingsReport(f)
}

func printFindingsReport(f any) {
	// Human-readable rendering delegates to the JSON shape via ui
	// helpers; detailed terminal tables are out of scope for the
	// machine-facing core (spec §1: a presentation layer consumes
	// this artifact).
	ui.Header("Findings")
	ui.Info(fmt.Sprintf("%+v", f))
}

func absRootOrFail(cf *commonFlags) string {
	root := cf.root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fail(cf, errors.NewUserInputError("root is not a valid path", err.Error(), "pass an existing directory"))
	}
	return abs
}
