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
	"github.com/loctreehq/loctree/pkg/model"
	"github.com/loctreehq/loctree/pkg/scanner"
	"github.com/loctreehq/loctree/pkg/snapshot"
)

// runScan implements `loctree scan`: walk the repository, resolve
// import edges, and persist the result to .loctree/snapshot.json plus
// its fingerprint cache, reusing the prior snapshot when nothing on
// disk has changed (spec §4.1/§4.7).
func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	cf := &commonFlags{}
	addCommonFlags(fs, cf)
	fresh := fs.Bool("fresh", false, "Ignore any prior snapshot and rescan everything")
	gitignore := fs.Bool("honor-gitignore", true, "Skip files matched by .gitignore")
	hidden := fs.Bool("show-hidden", false, "Include dot-directories in the scan")
	pyRaces := fs.Bool("py-races", false, "Enable the Python data-race heuristic detector")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: loctree scan [--root <dir>] [--fresh] [--json]")
	}
	_ = fs.Parse(args)

	ui.InitColors(cf.noColor)
	root, err := filepath.Abs(cf.root)
	if err != nil {
		fail(cf, errors.NewUserInputError("root is not a valid path", err.Error(), "pass an existing directory"))
	}
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		fail(cf, errors.NewUserInputError("root is not a directory", root, "pass a directory that contains source files"))
	}

	cfg, ignoreRules := mustLoadConfig(root)

	cachePath := filepath.Join(filepath.Dir(snapshot.Path(root)), "fingerprints.json")
	cache, err := scanner.LoadCache(cachePath)
	if err != nil {
		fail(cf, errors.NewIOError("could not load fingerprint cache", err.Error(), "", err))
	}

	var prior *model.Snapshot
	if !*fresh {
		prior = tryLoadPriorSnapshot(root)
	}

	opts := scanner.Options{
		Roots:            []string{root},
		HonorGitignore:   *gitignore,
		ShowHidden:       *hidden,
		Config:           cfg,
		Ignore:           ignoreRules,
		PyRaces:          *pyRaces,
		FingerprintCache: cache,
		FullScan:         *fresh,
		Prior:            prior,
	}

	if !cf.jsonOut {
		ui.Header("Scanning " + root)
	}

	result, err := scanner.Scan(opts)
	if err != nil {
		fail(cf, err)
	}

	snap, err := snapshot.Save(root, result.Files, result.Edges, opts.Roots)
	if err != nil {
		fail(cf, err)
	}
	if err := cache.Save(cachePath); err != nil {
		errors.Warn("could not persist fingerprint cache: %v", err)
	}

	if cf.jsonOut || cf.jsonl {
		if err := writeJSON(cf, snap); err != nil {
			fail(cf, err)
		}
		return
	}

	ui.Successf("scanned %d files across %d languages (%d LOC)",
		snap.Metadata.FileCount, len(snap.Metadata.Languages), snap.Metadata.TotalLOC)
}

// tryLoadPriorSnapshot loads the previous snapshot for incremental
// reuse; any failure (missing file, corrupt JSON) degrades to a full
// scan rather than aborting, since scan itself is what repairs a
// missing/corrupt snapshot.
func tryLoadPriorSnapshot(root string) *model.Snapshot {
	snap, err := snapshot.Load(root, snapshot.LoadOptions{NoScan: true})
	if err != nil {
		return nil
	}
	return snap
}
