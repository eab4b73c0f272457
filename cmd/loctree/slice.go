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

// runSlice implements `loctree slice <file>`: the transitive
// dependency closure (and optionally reverse closure) for one file
// (spec §4.8).
func runSlice(args []string) {
	fs := flag.NewFlagSet("slice", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	withConsumers := fs.Bool("consumers", false, "Also include the reverse (consumer) closure")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree slice <file> [--root <dir>] [--consumers] [--json]")
	}
	_ = fs.Parse(args)
	ui.InitColors(cf.noColor)

	target := requirePositional(fs, "file")
	root := absRootOrFail(cf)
	snap, err := loadSnapshot(root, false, false, false)
	if err != nil {
		fail(cf, err)
	}

	res := query.Slice(snap, target, *withConsumers)
	if cf.jsonOut || cf.outPath != "" {
		if err := writeJSON(cf, res); err != nil {
			fail(cf, err)
		}
		return
	}

	ui.Header("Slice: " + res.Target)
	for _, d := range res.Deps {
		fmt.Println("  dep:", d)
	}
	for _, c := range res.Consumers {
		fmt.Println("  consumer:", c)
	}
}
