// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	flag "github.com/spf13/pflag"
	"fmt"
	"os"

	"github.com/loctreehq/loctree/internal/ui"
	"github.com/loctreehq/loctree/pkg/coverage"
)

// runTrace implements `loctree trace <handler>`: a single command's
// backend definition, frontend invoke sites, and verdict (spec §4.6).
func runTrace(args []string) {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree trace <handler> [--root <dir>] [--json]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	name := requirePositional(fs, "handler")
	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, false, false, false)
	if err != nil {
		fail(cf, err)
	}

	res := coverage.Trace(snap.Files, name)
	if cf.jsonOut || cf.outPath != "" {
		if err := writeJSON(cf, res); err != nil {
			fail(cf, err)
		}
		return
	}

	ui.Header("Trace: " + res.Name)
	ui.Info(fmt.Sprintf("verdict: %s", ui.Severity(string(res.Verdict))))
	fmt.Println(res.Suggestion)
}
