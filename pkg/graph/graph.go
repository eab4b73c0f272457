// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package graph builds the directed import graph over a snapshot's
// files and derives cycles and hub rankings from it (spec §4.4).
// Grounded on the teacher's pkg/tools/trace.go BFS-over-call-graph
// shape (visited-sets, safety bounds), generalized from call-path
// tracing to SCC/cycle search over imports.
package graph

import (
	"strings"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

// DependencyGraph is the adjacency-list view of a snapshot's edges,
// built once and reused by Cycles and Hubs.
type DependencyGraph struct {
	Nodes []string
	adj   map[string][]string // dependency edges only (import, non-mod::)
	all   map[string][]string // import + reexport edges, for slice/focus/impact
}

// Build constructs a DependencyGraph from a file list and edge set.
// `mod::…` Rust containment edges never appear in model.Edge (they are
// recorded on ImportEntry, not surfaced as graph edges by the
// scanner's resolution pass) so no further filtering is needed here;
// see pkg/scanner's edge construction.
func Build(files []model.FileAnalysis, edges []model.Edge) *DependencyGraph {
	g := &DependencyGraph{
		adj: map[string][]string{},
		all: map[string][]string{},
	}
	seen := map[string]bool{}
	for _, f := range files {
		if !seen[f.Path] {
			seen[f.Path] = true
			g.Nodes = append(g.Nodes, f.Path)
		}
	}

	for _, e := range edges {
		g.all[e.From] = append(g.all[e.From], e.To)
		if e.Label == model.EdgeImport {
			g.adj[e.From] = append(g.adj[e.From], e.To)
		}
	}
	return g
}

// Dependents returns every file that directly imports or re-exports path.
func (g *DependencyGraph) Dependents(path string) []string {
	var out []string
	for from, tos := range g.all {
		for _, to := range tos {
			if to == path {
				out = append(out, from)
				break
			}
		}
	}
	return out
}

// Dependencies returns path's direct import+reexport targets.
func (g *DependencyGraph) Dependencies(path string) []string {
	return append([]string(nil), g.all[path]...)
}

// InDegree/OutDegree are computed on the import-only subgraph (spec
// §4.4: "computed on the (non-reexport) import subgraph").
func (g *DependencyGraph) inDegrees() map[string]int {
	deg := map[string]int{}
	for _, n := range g.Nodes {
		deg[n] = 0
	}
	for _, tos := range g.adj {
		for _, to := range tos {
			deg[to]++
		}
	}
	return deg
}

func (g *DependencyGraph) outDegrees() map[string]int {
	deg := map[string]int{}
	for _, n := range g.Nodes {
		deg[n] = len(g.adj[n])
	}
	return deg
}

// bucketFor classifies a file by in-degree per the configured
// thresholds (spec §4.4).
func bucketFor(inDegree int, t config.Thresholds) model.HubBucket {
	switch {
	case inDegree >= t.HubCoreInDegree:
		return model.HubCore
	case inDegree >= t.HubSharedInDegree:
		return model.HubShared
	case inDegree >= 1:
		return model.HubPeripheral
	default:
		return model.HubLeaf
	}
}

// joinArrow renders an "a -> b" edge for cycle break-point suggestions.
func joinArrow(a, b string) string {
	return strings.TrimSpace(a) + " -> " + strings.TrimSpace(b)
}
