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

// runImpact implements `loctree impact <file>`: the reverse-dependency
// blast radius of changing one file, optionally depth-bounded (spec §4.8).
func runImpact(args []string) {
	fs := flag.NewFlagSet("impact", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	depth := fs.Int("depth", 0, "Bound the transitive search to N hops (0 = unbounded)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree impact <file> [--root <dir>] [--depth N] [--json]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	target := requirePositional(fs, "file")
	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, false, false, false)
	if err != nil {
		fail(cf, err)
	}

	res := query.Impact(snap, target, *depth)
	if cf.jsonOut || cf.outPath != "" {
		if err := writeJSON(cf, res); err != nil {
			fail(cf, err)
		}
		return
	}

	ui.Header("Impact: " + res.Target)
	fmt.Println(ui.CountText(len(res.Direct)), "direct consumers")
	fmt.Println(ui.CountText(len(res.Transitive)), "transitive consumers")
}
