// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package graph

import (
	"sort"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

// Hubs computes in/out-degree on the import-only subgraph and buckets
// every file into core/shared/peripheral/leaf (spec §4.4). Leaves that
// are not entry points are flagged as dead-file candidates.
func Hubs(files []model.FileAnalysis, edges []model.Edge, t config.Thresholds) []model.Hub {
	g := Build(files, edges)
	inDeg := g.inDegrees()
	outDeg := g.outDegrees()

	entryPoints := map[string]bool{}
	for _, f := range files {
		if len(f.EntryPoints) > 0 {
			entryPoints[f.Path] = true
		}
	}

	hubs := make([]model.Hub, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		in := inDeg[n]
		bucket := bucketFor(in, t)
		hubs = append(hubs, model.Hub{
			Path:          n,
			InDegree:      in,
			OutDegree:     outDeg[n],
			Bucket:        bucket,
			CandidateDead: bucket == model.HubLeaf && !entryPoints[n],
		})
	}

	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].InDegree != hubs[j].InDegree {
			return hubs[i].InDegree > hubs[j].InDegree
		}
		return hubs[i].Path < hubs[j].Path
	})
	return hubs
}
