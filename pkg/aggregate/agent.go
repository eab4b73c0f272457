// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package aggregate

import (
	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/graph"
	"github.com/loctreehq/loctree/pkg/model"
)

// BuildAgentBundle produces the for-AI artifact: hub rankings, the
// top dead parrots (leaf files with no entry point, per the hub
// bucketing's CandidateDead flag), the quick-wins list already
// computed for Findings, and a per-file slice-hint command (spec
// §4.9).
func BuildAgentBundle(f model.Findings, files []model.FileAnalysis, edges []model.Edge, cfg *config.Config) model.AgentBundle {
	if cfg == nil {
		cfg = config.Default()
	}

	hubs := graph.Hubs(files, edges, cfg.Thresholds)

	var dead []model.Hub
	for _, h := range hubs {
		if h.CandidateDead {
			dead = append(dead, h)
		}
	}

	var hints []model.SliceHint
	for _, h := range hubs {
		hints = append(hints, model.SliceHint{
			File:    h.Path,
			Command: "loctree slice " + h.Path,
		})
	}

	return model.AgentBundle{
		HealthScore:    f.HealthScore,
		Hubs:           hubs,
		TopDeadParrots: dead,
		QuickWins:      f.QuickWins,
		SliceHints:     hints,
	}
}
