// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	flag "github.com/spf13/pflag"
	"fmt"
	"os"

	"github.com/loctreehq/loctree/internal/output"
	"github.com/loctreehq/loctree/internal/ui"
	"github.com/loctreehq/loctree/pkg/aggregate"
)

// runAgent implements `loctree agent`: the for-AI bundle of hubs,
// dead parrots, quick wins, and per-file slice hints (spec §4.9).
func runAgent(args []string) {
	fs := flag.NewFlagSet("agent", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree agent [--root <dir>] [--json|--jsonl]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, false, false, false)
	if err != nil {
		fail(cf, err)
	}
	cfg, ignoreRules := mustLoadConfig(root)

	f := aggregate.Build(aggregate.Inputs{Root: root, Files: snap.Files, Edges: snap.Edges, Config: cfg, IgnoreRules: ignoreRules})
	bundle := aggregate.BuildAgentBundle(f, snap.Files, snap.Edges, cfg)

	if cf.jsonl {
		if err := output.JSONLines(bundle.QuickWins); err != nil {
			fail(cf, err)
		}
		return
	}
	if err := writeJSON(cf, bundle); err != nil {
		fail(cf, err)
	}
}
