// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package query

import (
	"path"
	"sort"
	"strings"

	"github.com/loctreehq/loctree/pkg/model"
)

// FocusResult reports a directory's internal structure and its
// boundary edges (spec §4.8).
type FocusResult struct {
	Dir           string   `json:"dir"`
	Core          []string `json:"core"`
	InternalEdges []model.Edge `json:"internal_edges,omitempty"`
	ExternalDeps  []string `json:"external_deps,omitempty"`
	Consumers     []string `json:"consumers,omitempty"`
}

// Focus reports the files directly inside dir, the edges between them,
// the imports that leave that set, and the outside files that import
// into it.
func Focus(snap *model.Snapshot, dir string) FocusResult {
	dir = strings.TrimSuffix(dir, "/")
	res := FocusResult{Dir: dir}

	inDir := map[string]bool{}
	for _, f := range snap.Files {
		if isUnder(f.Path, dir) {
			inDir[f.Path] = true
			res.Core = append(res.Core, f.Path)
		}
	}
	sort.Strings(res.Core)

	externalDeps := map[string]bool{}
	consumers := map[string]bool{}

	for _, e := range snap.Edges {
		fromIn, toIn := inDir[e.From], inDir[e.To]
		switch {
		case fromIn && toIn:
			res.InternalEdges = append(res.InternalEdges, e)
		case fromIn && !toIn:
			externalDeps[e.To] = true
		case !fromIn && toIn:
			consumers[e.From] = true
		}
	}

	res.ExternalDeps = sortedKeys(externalDeps)
	res.Consumers = sortedKeys(consumers)
	return res
}

// isUnder reports whether filePath lives directly inside dir; files in
// subdirectories of dir are not included.
func isUnder(filePath, dir string) bool {
	if dir == "" || dir == "." {
		return path.Dir(filePath) == "." || !strings.Contains(filePath, "/")
	}
	return path.Dir(filePath) == dir
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
