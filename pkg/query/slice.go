// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package query implements the four read-only snapshot queries (spec
// §4.8): slice, focus, impact, search. Grounded on the teacher's
// pkg/tools/trace.go BFS traversal shape (visited-set, safety bound)
// and detectEntryPoints/findFunctionsByName helper style, generalized
// from call-graph tracing to the import graph.
package query

import (
	"sort"

	"github.com/loctreehq/loctree/pkg/graph"
	"github.com/loctreehq/loctree/pkg/model"
)

// maxNodesExplored bounds every traversal in this package, mirroring
// the teacher's trace.go safety limit against pathological graphs.
const maxNodesExplored = 100000

// SliceResult is the transitive-closure report for a single file
// (spec §4.8).
type SliceResult struct {
	Target    string   `json:"target"`
	Deps      []string `json:"deps"`
	Consumers []string `json:"consumers,omitempty"`
}

// Slice computes the transitive closure of path's resolved imports,
// and (when withConsumers is true) the transitive reverse closure.
func Slice(snap *model.Snapshot, path string, withConsumers bool) SliceResult {
	g := graph.Build(snap.Files, snap.Edges)
	res := SliceResult{Target: path}
	res.Deps = closure(g.Dependencies, path)
	if withConsumers {
		res.Consumers = closure(g.Dependents, path)
	}
	return res
}

// closure does a breadth-first transitive walk from start using next
// as the per-node expansion function, returning every reached node
// except start itself, sorted for deterministic output.
func closure(next func(string) []string, start string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string

	explored := 0
	for len(queue) > 0 && explored < maxNodesExplored {
		node := queue[0]
		queue = queue[1:]
		explored++

		for _, n := range next(node) {
			if visited[n] {
				continue
			}
			visited[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}

	sort.Strings(out)
	return out
}
