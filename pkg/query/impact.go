// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package query

import (
	"sort"

	"github.com/loctreehq/loctree/pkg/graph"
	"github.com/loctreehq/loctree/pkg/model"
)

// ImpactResult reports a file's direct and transitive consumers up to
// an optional depth bound (spec §4.8).
type ImpactResult struct {
	Target    string   `json:"target"`
	Direct    []string `json:"direct"`
	Transitive []string `json:"transitive,omitempty"`
	MaxDepth  int      `json:"max_depth,omitempty"`
}

// Impact traverses the reverse import graph from path. maxDepth <= 0
// means unbounded.
func Impact(snap *model.Snapshot, path string, maxDepth int) ImpactResult {
	g := graph.Build(snap.Files, snap.Edges)
	res := ImpactResult{Target: path, MaxDepth: maxDepth}
	res.Direct = sortedCopy(g.Dependents(path))

	visited := map[string]bool{path: true}
	for _, d := range res.Direct {
		visited[d] = true
	}
	queue := make([]depthNode, 0, len(res.Direct))
	for _, d := range res.Direct {
		queue = append(queue, depthNode{path: d, depth: 1})
	}

	var transitive []string
	explored := 0
	for len(queue) > 0 && explored < maxNodesExplored {
		cur := queue[0]
		queue = queue[1:]
		explored++

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}
		for _, n := range g.Dependents(cur.path) {
			if visited[n] {
				continue
			}
			visited[n] = true
			transitive = append(transitive, n)
			queue = append(queue, depthNode{path: n, depth: cur.depth + 1})
		}
	}

	sort.Strings(transitive)
	res.Transitive = transitive
	return res
}

type depthNode struct {
	path  string
	depth int
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
