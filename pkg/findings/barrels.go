// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package findings

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

var barrelNames = map[string]bool{
	"index.ts": true, "index.tsx": true, "index.js": true, "index.jsx": true,
	"index.mjs": true, "index.cjs": true,
	"mod.rs":      true,
	"__init__.py": true,
}

// Barrels computes the three barrel-chaos sub-findings (spec §4.5)
// using the thresholds named in config.Thresholds.
func Barrels(files []model.FileAnalysis, t config.Thresholds) []model.BarrelFinding {
	var out []model.BarrelFinding
	out = append(out, missingBarrels(files, t)...)
	out = append(out, deepChains(files, t)...)
	out = append(out, inconsistentPaths(files)...)
	return out
}

func missingBarrels(files []model.FileAnalysis, t config.Thresholds) []model.BarrelFinding {
	dirFiles := map[string][]string{}
	hasBarrel := map[string]bool{}
	for _, f := range files {
		d := dirOf(f.Path)
		dirFiles[d] = append(dirFiles[d], f.Path)
		if barrelNames[path.Base(f.Path)] {
			hasBarrel[d] = true
		}
	}

	externalImporters := externalImporterCounts(files, dirFiles)

	var out []model.BarrelFinding
	var dirs []string
	for d := range dirFiles {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	for _, d := range dirs {
		if d == "" || hasBarrel[d] {
			continue
		}
		if len(dirFiles[d]) < t.MissingBarrelMinFiles {
			continue
		}
		if externalImporters[d] < t.MissingBarrelMinImporters {
			continue
		}
		out = append(out, model.BarrelFinding{
			Kind:   model.BarrelMissing,
			Target: d,
			Detail: fmt.Sprintf("%d files, %d external importers, no index.* barrel", len(dirFiles[d]), externalImporters[d]),
			Files:  append([]string(nil), dirFiles[d]...),
		})
	}
	return out
}

func externalImporterCounts(files []model.FileAnalysis, dirFiles map[string][]string) map[string]int {
	inDir := map[string]string{}
	for d, paths := range dirFiles {
		for _, p := range paths {
			inDir[p] = d
		}
	}

	counts := map[string]map[string]bool{}
	for _, f := range files {
		fromDir := dirOf(f.Path)
		for _, imp := range f.Imports {
			if imp.ResolvedPath == "" {
				continue
			}
			targetDir, ok := inDir[imp.ResolvedPath]
			if !ok || targetDir == fromDir {
				continue
			}
			if counts[targetDir] == nil {
				counts[targetDir] = map[string]bool{}
			}
			counts[targetDir][f.Path] = true
		}
	}

	out := map[string]int{}
	for d, set := range counts {
		out[d] = len(set)
	}
	return out
}

// deepChains finds re-export chains of length >= D, where each hop is
// a single `export * from`/`pub use` step (spec §4.5).
func deepChains(files []model.FileAnalysis, t config.Thresholds) []model.BarrelFinding {
	next := map[string][]string{}
	incoming := map[string]int{}
	for _, f := range files {
		for _, rx := range f.Reexports {
			if rx.ResolvedPath == "" {
				continue
			}
			next[f.Path] = append(next[f.Path], rx.ResolvedPath)
			incoming[rx.ResolvedPath]++
		}
	}

	var roots []string
	for _, f := range files {
		if len(next[f.Path]) > 0 && incoming[f.Path] == 0 {
			roots = append(roots, f.Path)
		}
	}
	sort.Strings(roots)

	var out []model.BarrelFinding
	seen := map[string]bool{}
	for _, root := range roots {
		chain := longestChain(root, next, map[string]bool{})
		if len(chain)-1 < t.DeepChainLength {
			continue
		}
		key := strings.Join(chain, ">")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.BarrelFinding{
			Kind:   model.BarrelDeepChain,
			Target: chain[0],
			Detail: fmt.Sprintf("re-export chain of length %d", len(chain)-1),
			Files:  chain,
			Length: len(chain) - 1,
		})
	}
	return out
}

func longestChain(node string, next map[string][]string, visiting map[string]bool) []string {
	if visiting[node] {
		return []string{node}
	}
	visiting[node] = true
	best := []string{node}
	for _, n := range next[node] {
		candidate := append([]string{node}, longestChain(n, next, visiting)...)
		if len(candidate) > len(best) {
			best = candidate
		}
	}
	return best
}

// inconsistentPaths finds a symbol imported via more than one distinct
// source specifier across the codebase, even when they resolve to the
// same file (spec §4.5).
func inconsistentPaths(files []model.FileAnalysis) []model.BarrelFinding {
	type key struct{ resolved, symbol string }
	sources := map[key]map[string]bool{}

	for _, f := range files {
		for _, imp := range f.Imports {
			if imp.ResolvedPath == "" {
				continue
			}
			for _, sym := range imp.Symbols {
				k := key{imp.ResolvedPath, sym}
				if sources[k] == nil {
					sources[k] = map[string]bool{}
				}
				sources[k][imp.Source] = true
			}
		}
	}

	var keys []key
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].resolved != keys[j].resolved {
			return keys[i].resolved < keys[j].resolved
		}
		return keys[i].symbol < keys[j].symbol
	})

	var out []model.BarrelFinding
	for _, k := range keys {
		if len(sources[k]) < 2 {
			continue
		}
		var paths []string
		for s := range sources[k] {
			paths = append(paths, s)
		}
		sort.Strings(paths)
		out = append(out, model.BarrelFinding{
			Kind:   model.BarrelInconsistent,
			Target: k.symbol,
			Detail: fmt.Sprintf("imported from %d distinct paths: %s", len(paths), strings.Join(paths, ", ")),
			Files:  paths,
		})
	}
	return out
}
