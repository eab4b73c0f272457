// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package findings

import (
	"path"
	"sort"
	"strings"

	"github.com/loctreehq/loctree/pkg/model"
)

// Twins groups exported symbols by name across every file and reports
// every group with >= 2 members, choosing a canonical file per spec
// §4.5's tie-break order: most importers, then non-test over test,
// then non-generated over generated, then lexicographic.
func Twins(files []model.FileAnalysis) []model.TwinGroup {
	idx := buildImporterIndex(files)
	byPath := make(map[string]*model.FileAnalysis, len(files))
	for i := range files {
		byPath[files[i].Path] = &files[i]
	}

	bySymbol := map[string][]string{}
	for _, f := range files {
		seen := map[string]bool{}
		for _, exp := range f.Exports {
			if seen[exp.Name] {
				continue
			}
			seen[exp.Name] = true
			bySymbol[exp.Name] = append(bySymbol[exp.Name], f.Path)
		}
	}

	var symbols []string
	for s := range bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var groups []model.TwinGroup
	for _, sym := range symbols {
		paths := bySymbol[sym]
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)

		canonical := pickCanonical(paths, sym, byPath, idx)
		groups = append(groups, model.TwinGroup{
			Symbol:        sym,
			Files:         paths,
			Canonical:     canonical,
			CrossLanguage: isCrossLanguage(paths, byPath),
		})
	}
	return groups
}

func pickCanonical(paths []string, symbol string, byPath map[string]*model.FileAnalysis, idx *importerIndex) string {
	best := paths[0]
	bestScore := canonicalScore(best, symbol, byPath, idx)
	for _, p := range paths[1:] {
		score := canonicalScore(p, symbol, byPath, idx)
		if score.better(bestScore, best, p) {
			best = p
			bestScore = score
		}
	}
	return best
}

type canonicalCandidate struct {
	importers  int
	isTest     bool
	isGenerated bool
}

func canonicalScore(p, symbol string, byPath map[string]*model.FileAnalysis, idx *importerIndex) canonicalCandidate {
	fa := byPath[p]
	c := canonicalCandidate{}
	if fa != nil {
		c.isTest = fa.IsTest
		c.isGenerated = fa.IsGenerated
	}
	c.importers = idx.importerCount(p, symbol)
	return c
}

// better reports whether candidate c (at path cPath) should replace
// the current best (score best, at path bestPath) per spec §4.5's
// exact tie-break order.
func (c canonicalCandidate) better(best canonicalCandidate, bestPath, cPath string) bool {
	if c.importers != best.importers {
		return c.importers > best.importers
	}
	if c.isTest != best.isTest {
		return !c.isTest // non-test wins
	}
	if c.isGenerated != best.isGenerated {
		return !c.isGenerated // non-generated wins
	}
	return cPath < bestPath
}

func isCrossLanguage(paths []string, byPath map[string]*model.FileAnalysis) bool {
	langs := map[model.Language]bool{}
	for _, p := range paths {
		if fa := byPath[p]; fa != nil {
			langs[fa.Language] = true
		}
	}
	return len(langs) > 1
}

// dirOf is a small shared helper for barrels.go.
func dirOf(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return strings.TrimSuffix(d, "/") + "/"
}
