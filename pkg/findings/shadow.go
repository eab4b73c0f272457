// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package findings

import (
	"sort"

	"github.com/loctreehq/loctree/pkg/model"
)

// ShadowExports reports named re-exports whose exposed name collides
// with another export already declared directly in the same file
// (spec §4.9's "shadow exports" — a within-file collision, distinct
// from twins.go's cross-file duplicate detection).
func ShadowExports(files []model.FileAnalysis) []model.ShadowExport {
	var out []model.ShadowExport

	for _, f := range files {
		own := map[string]bool{}
		for _, exp := range f.Exports {
			own[exp.Name] = true
		}
		for _, rx := range f.Reexports {
			if rx.Kind != model.ReexportNamed {
				continue
			}
			for _, pair := range rx.Named {
				if own[pair.Exported] {
					out = append(out, model.ShadowExport{
						File:           f.Path,
						Symbol:         pair.Exported,
						ShadowedSource: rx.Source,
					})
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
