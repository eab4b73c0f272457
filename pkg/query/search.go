// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

// JoinMode combines multiple search terms (spec §4.8).
type JoinMode string

const (
	JoinSplit JoinMode = "split"
	JoinAnd   JoinMode = "and"
	JoinOr    JoinMode = "or"
)

// SymbolHit is one match against a file's exported/declared symbols.
type SymbolHit struct {
	File       string  `json:"file"`
	Symbol     string  `json:"symbol"`
	Kind       string  `json:"kind"`
	Exact      bool    `json:"exact"`
	Similarity float64 `json:"similarity,omitempty"`
	Dead       bool    `json:"dead,omitempty"`
}

// SearchResults is the unified facet report (spec §4.8).
type SearchResults struct {
	Query        string      `json:"query"`
	Join         JoinMode    `json:"join,omitempty"`
	Exact        []SymbolHit `json:"exact,omitempty"`
	Fuzzy        []SymbolHit `json:"fuzzy,omitempty"`
	Dead         []SymbolHit `json:"dead,omitempty"`
	Intersection []string    `json:"intersection,omitempty"`
}

var fuzzyParams = levenshtein.NewParams()

// Search runs the three facets (exact, fuzzy, dead-code status) for a
// single term against every file's exported symbols.
func Search(snap *model.Snapshot, term string, threshold float64) SearchResults {
	if threshold <= 0 {
		threshold = config.DefaultThresholds().SearchFuzzyThreshold
	}
	deadSet := deadSymbolSet(snap)

	res := SearchResults{Query: term}
	for _, f := range snap.Files {
		for _, exp := range f.Exports {
			hit := SymbolHit{File: f.Path, Symbol: exp.Name, Kind: exp.Kind}
			hit.Dead = deadSet[f.Path+"#"+exp.Name]

			if strings.EqualFold(exp.Name, term) {
				hit.Exact = true
				res.Exact = append(res.Exact, hit)
				continue
			}
			sim := levenshtein.Match(strings.ToLower(term), strings.ToLower(exp.Name), fuzzyParams)
			if sim >= threshold {
				hit.Similarity = sim
				res.Fuzzy = append(res.Fuzzy, hit)
			}
			if hit.Dead {
				res.Dead = append(res.Dead, hit)
			}
		}
	}

	sort.Slice(res.Fuzzy, func(i, j int) bool { return res.Fuzzy[i].Similarity > res.Fuzzy[j].Similarity })
	return res
}

// MultiSearch runs Search for every term and combines the per-file
// result sets per mode: split keeps each term's subresults plus the
// cross-term file intersection, and (files hitting every term), or
// (union via a |-joined regex over symbol names).
func MultiSearch(snap *model.Snapshot, terms []string, mode JoinMode, threshold float64) []SearchResults {
	var all []SearchResults
	for _, term := range terms {
		all = append(all, Search(snap, term, threshold))
	}

	switch mode {
	case JoinAnd:
		return []SearchResults{{Query: strings.Join(terms, " & "), Join: JoinAnd, Intersection: intersectFiles(all)}}
	case JoinOr:
		pattern := strings.Join(regexQuoteAll(terms), "|")
		return []SearchResults{{Query: pattern, Join: JoinOr, Exact: unionOr(snap, pattern)}}
	default:
		combined := SearchResults{Query: strings.Join(terms, ", "), Join: JoinSplit, Intersection: intersectFiles(all)}
		for _, r := range all {
			combined.Exact = append(combined.Exact, r.Exact...)
			combined.Fuzzy = append(combined.Fuzzy, r.Fuzzy...)
			combined.Dead = append(combined.Dead, r.Dead...)
		}
		return append([]SearchResults{combined}, all...)
	}
}

// intersectFiles returns the files that appear (exact or fuzzy) in
// every per-term result set.
func intersectFiles(results []SearchResults) []string {
	if len(results) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, r := range results {
		seen := map[string]bool{}
		for _, h := range append(append([]SymbolHit{}, r.Exact...), r.Fuzzy...) {
			if !seen[h.File] {
				seen[h.File] = true
				counts[h.File]++
			}
		}
	}
	var out []string
	for f, c := range counts {
		if c == len(results) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// unionOr matches symbol names against a single |-joined regex.
func unionOr(snap *model.Snapshot, pattern string) []SymbolHit {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil
	}
	var out []SymbolHit
	for _, f := range snap.Files {
		for _, exp := range f.Exports {
			if re.MatchString(exp.Name) {
				out = append(out, SymbolHit{File: f.Path, Symbol: exp.Name, Kind: exp.Kind, Exact: true})
			}
		}
	}
	return out
}

func regexQuoteAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = regexp.QuoteMeta(t)
	}
	return out
}

// deadSymbolSet builds a (file#symbol) -> isDead lookup with a simpler
// check than findings.DeadExports: an export is alive if it is imported,
// used locally in its own file, or is an entry point; namespace imports,
// dynamic imports and ignore rules are not considered. It is kept local
// so query does not import findings.
func deadSymbolSet(snap *model.Snapshot) map[string]bool {
	imported := map[string]bool{}
	for _, f := range snap.Files {
		for _, imp := range f.Imports {
			for _, sym := range imp.Symbols {
				imported[imp.ResolvedPath+"#"+sym] = true
			}
		}
	}

	dead := map[string]bool{}
	for _, f := range snap.Files {
		if f.IsAmbient() {
			continue
		}
		for _, exp := range f.Exports {
			key := f.Path + "#" + exp.Name
			if imported[key] || f.HasLocalUse(exp.Name) {
				continue
			}
			isEntry := false
			for _, e := range f.EntryPoints {
				if e == exp.Name {
					isEntry = true
					break
				}
			}
			if isEntry {
				continue
			}
			dead[key] = true
		}
	}
	return dead
}
