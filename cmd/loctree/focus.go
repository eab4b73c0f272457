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

// runFocus implements `loctree focus <dir>`: a directory's internal
// core, its external dependencies, and who imports into it (spec §4.8).
func runFocus(args []string) {
	fs := flag.NewFlagSet("focus", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree focus <dir> [--root <dir>] [--json]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	dir := requirePositional(fs, "dir")
	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, false, false, false)
	if err != nil {
		fail(cf, err)
	}

	res := query.Focus(snap, dir)
	if cf.jsonOut || cf.outPath != "" {
		if err := writeJSON(cf, res); err != nil {
			fail(cf, err)
		}
		return
	}

	ui.Header("Focus: " + res.Dir)
	ui.SubHeader(fmt.Sprintf("%d core files, %d external deps, %d consumers",
		len(res.Core), len(res.ExternalDeps), len(res.Consumers)))
}
