// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package aggregate combines the per-subsystem results (graph, dead
// exports, twins, barrels, memory lint) into the single Findings
// artifact spec §4.9 describes, plus the for-AI bundle. Build does not
// run command/event coverage; its CommandGaps/EventGaps fields are
// filled by the caller.
// Grounded on the teacher's pkg/tools/summary.go aggregation-across-
// subsystems shape, generalized from a formatted-text tool result to
// a structured, JSON-serializable report.
package aggregate

import (
	"math"
	"strconv"
	"time"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/findings"
	"github.com/loctreehq/loctree/pkg/graph"
	"github.com/loctreehq/loctree/pkg/model"
)

// Inputs bundles everything Build needs so call sites don't have to
// re-run every subsystem pass by hand.
type Inputs struct {
	Root        string
	Files       []model.FileAnalysis
	Edges       []model.Edge
	Config      *config.Config
	IgnoreRules *config.IgnoreRules
}

// Build runs every findings subsystem and folds the results into one
// Findings artifact, including the bounded quick-wins list and the
// health score.
func Build(in Inputs) model.Findings {
	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ignore := in.IgnoreRules
	if ignore == nil {
		ignore = &config.IgnoreRules{}
	}

	graphStart := time.Now()
	cycles := graph.Cycles(in.Files, in.Edges)
	observeGraphDuration(time.Since(graphStart))

	findingsStart := time.Now()
	dead := findings.DeadExports(in.Files, ignore)
	shadow := findings.ShadowExports(in.Files)
	twins := findings.Twins(in.Files)
	barrels := findings.Barrels(in.Files, cfg.Thresholds)
	lint := findings.MemoryLint(in.Root, in.Files)
	observeFindingsDuration(time.Since(findingsStart))

	f := model.Findings{
		DeadExports:   dead,
		ShadowExports: shadow,
		Cycles:        cycles,
		Twins:         twins,
		Barrels:       barrels,
		Lint:          lint,
	}
	f.QuickWins = quickWins(f, cfg.Thresholds.QuickWinsLimit)
	f.HealthScore = healthScore(f)
	return f
}

// quickWins builds the bounded, prioritized suggestion list (spec
// §4.9): breaking cycles, then high-severity twins, then missing
// barrels, then high-confidence dead exports, then memory-lint
// findings.
func quickWins(f model.Findings, limit int) []model.QuickWin {
	if limit <= 0 {
		limit = 10
	}

	var wins []model.QuickWin

	for _, c := range f.Cycles {
		if c.Type == model.CycleHardBidirectional && len(wins) < limit {
			wins = append(wins, model.QuickWin{
				Action: model.QuickWinBreakCycle,
				File:   c.Files[0],
				Reason: c.Suggestion,
			})
		}
	}

	for _, t := range f.Twins {
		if len(wins) >= limit {
			break
		}
		if !t.CrossLanguage && len(t.Files) >= 2 {
			wins = append(wins, model.QuickWin{
				Action: model.QuickWinConsolidate,
				File:   t.Canonical,
				Reason: "duplicate symbol " + t.Symbol + " across " + strconv.Itoa(len(t.Files)) + " files",
			})
		}
	}

	for _, b := range f.Barrels {
		if len(wins) >= limit {
			break
		}
		if b.Kind == model.BarrelMissing {
			wins = append(wins, model.QuickWin{
				Action: model.QuickWinCreateBarrel,
				File:   b.Target,
				Reason: b.Detail,
			})
		}
	}

	for _, d := range f.DeadExports {
		if len(wins) >= limit {
			break
		}
		if d.Confidence == model.DeadHigh {
			wins = append(wins, model.QuickWin{
				Action: model.QuickWinDelete,
				File:   d.File,
				Reason: "unused export " + d.Symbol,
			})
		}
	}

	for _, l := range f.Lint {
		if len(wins) >= limit {
			break
		}
		wins = append(wins, model.QuickWin{
			Action: model.QuickWinFixMemory,
			File:   l.File,
			Reason: l.Message,
		})
	}

	if len(wins) > limit {
		wins = wins[:limit]
	}
	return wins
}

// healthScore produces a 0-100 scalar via a log-normalized weighted
// sum over severity-bucketed metrics (spec §4.9): breaking cycles
// weigh heavily, dead exports/twins moderately, structural
// cycles/barrel chaos/duplicates mildly. Log-normalizing each count
// keeps one pathological metric (e.g. 500 dead exports in a huge repo)
// from swamping the others; a handful of issues in a small repo should
// read about as "unhealthy" as a proportionally larger handful in a
// big one.
func healthScore(f model.Findings) float64 {
	var breaking, structural, deadCount, twinCount, barrelCount int
	for _, c := range f.Cycles {
		if c.Type == model.CycleHardBidirectional {
			breaking++
		} else {
			structural++
		}
	}
	for _, d := range f.DeadExports {
		if d.Confidence == model.DeadHigh {
			deadCount++
		}
	}
	twinCount = len(f.Twins)
	barrelCount = len(f.Barrels)

	penalty := 18*logPenalty(breaking) +
		6*logPenalty(deadCount) +
		6*logPenalty(twinCount) +
		2*logPenalty(structural) +
		2*logPenalty(barrelCount)

	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

// logPenalty maps a raw count to a bounded, diminishing-returns
// penalty unit via log1p so the weighted sum above stays comparable
// across repos of very different sizes.
func logPenalty(count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Log1p(float64(count))
}

