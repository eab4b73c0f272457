// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	flag "github.com/spf13/pflag"
	"fmt"
	"os"

	"github.com/loctreehq/loctree/internal/errors"
	"github.com/loctreehq/loctree/internal/output"
	"github.com/loctreehq/loctree/internal/ui"
	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
	"github.com/loctreehq/loctree/pkg/snapshot"
)

// commonFlags are the flags every subcommand that reads a snapshot
// accepts, mirroring the teacher's per-subcommand flag.FlagSet shape
// (cmd/cie/start.go) rather than a single global flag.FlagSet shared
// across commands.
type commonFlags struct {
	root     string
	jsonOut  bool
	jsonl    bool
	noColor  bool
	outPath  string
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.root, "root", ".", "Repository root")
	fs.BoolVar(&cf.jsonOut, "json", false, "Emit machine-readable JSON")
	fs.BoolVar(&cf.jsonl, "jsonl", false, "Emit machine-readable JSON Lines")
	fs.BoolVar(&cf.noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored output")
	fs.StringVar(&cf.outPath, "json-out", "", "Write JSON output to this path instead of stdout")
}

// writeJSON emits data either to cf.outPath (warning if it overwrites
// an existing file, per spec §6) or to stdout.
func writeJSON(cf *commonFlags, data any) error {
	if cf.outPath == "" {
		return output.JSON(data)
	}
	if _, err := os.Stat(cf.outPath); err == nil {
		errors.Warn("overwriting existing file %s", cf.outPath)
	}
	f, err := os.Create(cf.outPath)
	if err != nil {
		return errors.NewIOError("could not write JSON output", err.Error(), "check the --json-out path is writable", err)
	}
	defer f.Close()
	return output.JSONTo(f, data)
}

// writeJSONLines emits one JSON object per item, either to
// cf.outPath or stdout.
func writeJSONLines[T any](cf *commonFlags, items []T) error {
	if cf.outPath == "" {
		return output.JSONLines(items)
	}
	if _, err := os.Stat(cf.outPath); err == nil {
		errors.Warn("overwriting existing file %s", cf.outPath)
	}
	f, err := os.Create(cf.outPath)
	if err != nil {
		return errors.NewIOError("could not write JSON output", err.Error(), "check the --json-out path is writable", err)
	}
	defer f.Close()
	return output.JSONLinesTo(f, items)
}

// loadSnapshot loads the persisted snapshot for root, honoring the
// fail-stale/fresh/no-scan flags shared by every read-only query
// subcommand (spec §4.7).
func loadSnapshot(root string, failStale, fresh, noScan bool) (*model.Snapshot, error) {
	return snapshot.Load(root, snapshot.LoadOptions{FailStale: failStale, Fresh: fresh, NoScan: noScan})
}

func mustLoadConfig(root string) (*config.Config, *config.IgnoreRules) {
	cfg, err := config.Load(root)
	if err != nil {
		errors.FatalError(err, false)
	}
	ignore, err := config.LoadIgnoreRules(root)
	if err != nil {
		errors.FatalError(err, false)
	}
	return cfg, ignore
}

// fail exits with the UserError's exit code, rendering JSON or the
// colored terminal form per cf.jsonOut (spec §7).
func fail(cf *commonFlags, err error) {
	errors.FatalError(err, cf.jsonOut)
}

func requirePositional(fs *flag.FlagSet, name string) string {
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: %s requires a %s argument\n", fs.Name(), name)
		fs.Usage()
		os.Exit(errors.ExitError)
	}
	return fs.Arg(0)
}

func init() {
	ui.InitColors(false)
}
