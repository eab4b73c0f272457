// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package graph

import (
	"sort"

	"github.com/loctreehq/loctree/pkg/model"
)

// Cycles computes every SCC of size >= 2 in the import-only subgraph,
// classifies it, and attaches a suggested break point (spec §4.4).
//
// Classification beyond HardBidirectional/FanPattern relies on signals
// the extractors already record (self/super-relative Rust imports,
// wildcard re-exports, trait exports, dynamic imports); there is no
// single authoritative rule for ModuleSelfReference/TraitBased in the
// general case, so these are best-effort structural smells, not a
// compiler-accurate classification. CfgGated is never assigned: no
// cfg-gating signal is recorded, so such cycles fall into the other
// classes.
func Cycles(files []model.FileAnalysis, edges []model.Edge) []model.Cycle {
	g := Build(files, edges)
	byPath := make(map[string]*model.FileAnalysis, len(files))
	for i := range files {
		byPath[files[i].Path] = &files[i]
	}

	sccs := tarjanSCC(g.Nodes, g.adj)

	var cycles []model.Cycle
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		sort.Strings(scc)
		cType := classify(scc, g.adj, byPath)
		cycles = append(cycles, model.Cycle{
			Files:      scc,
			Type:       cType,
			Suggestion: suggestBreak(scc),
		})
	}
	return cycles
}

// tarjanSCC returns every strongly-connected component of the graph
// described by adj, restricted to the node set `nodes`.
func tarjanSCC(nodes []string, adj map[string][]string) [][]string {
	index := 0
	indices := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	var out [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var component []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			out = append(out, component)
		}
	}

	for _, v := range nodes {
		if _, ok := indices[v]; !ok {
			strongconnect(v)
		}
	}
	return out
}

// classify assigns a CycleType to an SCC. scc is sorted for
// deterministic suggestion rendering.
func classify(scc []string, adj map[string][]string, byPath map[string]*model.FileAnalysis) model.CycleType {
	set := make(map[string]bool, len(scc))
	for _, n := range scc {
		set[n] = true
	}

	if isLazy(scc, set, byPath) {
		return model.CycleLazy
	}

	if len(scc) == 2 {
		a, b := scc[0], scc[1]
		if hasEdge(adj, a, b) && hasEdge(adj, b, a) {
			return model.CycleHardBidirectional
		}
	}

	if len(scc) >= 4 {
		if hasDominatingSource(scc, set, adj) {
			return model.CycleFanPattern
		}
	}

	if hasSelfReference(scc, byPath) {
		return model.CycleModuleSelfRef
	}
	if hasTraitExport(scc, byPath) {
		return model.CycleTraitBased
	}
	if hasWildcardImport(scc, set, byPath) {
		return model.CycleWildcardImport
	}

	return model.CycleUnknown
}

// isLazy reports whether every cycle-internal edge corresponds to a
// dynamic import on the source side (spec §4.4's "lazy" second pass,
// preferred over HardBidirectional per spec §9's tie-break policy).
func isLazy(scc []string, set map[string]bool, byPath map[string]*model.FileAnalysis) bool {
	edgeCount := 0
	dynamicCount := 0
	for _, from := range scc {
		fa := byPath[from]
		if fa == nil {
			return false
		}
		dynSet := make(map[string]bool, len(fa.DynamicImports))
		for _, d := range fa.DynamicImports {
			dynSet[d] = true
		}
		for _, imp := range fa.Imports {
			if imp.ResolvedPath == "" || !set[imp.ResolvedPath] {
				continue
			}
			edgeCount++
			if dynSet[imp.Source] || dynSet[imp.ResolvedPath] {
				dynamicCount++
			}
		}
	}
	return edgeCount > 0 && edgeCount == dynamicCount
}

func hasEdge(adj map[string][]string, from, to string) bool {
	for _, t := range adj[from] {
		if t == to {
			return true
		}
	}
	return false
}

// hasDominatingSource reports whether one node's internal out-degree
// accounts for nearly all cycle edges (spec §4.4's "diamond... single
// source dominating").
func hasDominatingSource(scc []string, set map[string]bool, adj map[string][]string) bool {
	total := 0
	maxOut := 0
	for _, n := range scc {
		count := 0
		for _, to := range adj[n] {
			if set[to] {
				count++
			}
		}
		total += count
		if count > maxOut {
			maxOut = count
		}
	}
	return total > 0 && maxOut*2 >= total
}

func hasSelfReference(scc []string, byPath map[string]*model.FileAnalysis) bool {
	for _, n := range scc {
		fa := byPath[n]
		if fa == nil {
			continue
		}
		for _, imp := range fa.Imports {
			if (imp.IsSelfRelative || imp.IsSuperRelative) && imp.ResolvedPath == n {
				return true
			}
		}
	}
	return false
}

func hasTraitExport(scc []string, byPath map[string]*model.FileAnalysis) bool {
	for _, n := range scc {
		fa := byPath[n]
		if fa == nil {
			continue
		}
		for _, exp := range fa.Exports {
			if exp.Kind == "trait" {
				return true
			}
		}
	}
	return false
}

func hasWildcardImport(scc []string, set map[string]bool, byPath map[string]*model.FileAnalysis) bool {
	for _, n := range scc {
		fa := byPath[n]
		if fa == nil {
			continue
		}
		for _, rx := range fa.Reexports {
			if rx.Kind == model.ReexportStar && set[rx.ResolvedPath] {
				return true
			}
		}
	}
	return false
}

// suggestBreak recommends splitting at the midpoint edge, per spec
// §4.4: "nodes[mid] -> nodes[(mid+1) % n]".
func suggestBreak(nodes []string) string {
	n := len(nodes)
	mid := n / 2
	return "Break at: " + joinArrow(nodes[mid], nodes[(mid+1)%n])
}
