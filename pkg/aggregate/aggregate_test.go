// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/loctreehq/loctree/internal/testing"
	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

func TestBuild_AggregatesAllSubsystems(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Exports: []model.ExportSymbol{{Name: "unused", Kind: "function"}}},
		{Path: "src/b.ts"},
	}
	f := Build(Inputs{Files: files})
	require.Len(t, f.DeadExports, 1)
	assert.Equal(t, "unused", f.DeadExports[0].Symbol)
}

func TestBuild_HealthScoreDropsWithBreakingCycle(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Imports: []model.ImportEntry{{Source: "./b", ResolvedPath: "src/b.ts"}}},
		{Path: "src/b.ts", Imports: []model.ImportEntry{{Source: "./a", ResolvedPath: "src/a.ts"}}},
	}
	edges := []model.Edge{
		{From: "src/a.ts", To: "src/b.ts", Label: model.EdgeImport},
		{From: "src/b.ts", To: "src/a.ts", Label: model.EdgeImport},
	}
	f := Build(Inputs{Files: files, Edges: edges})
	require.NotEmpty(t, f.Cycles)
	assert.Less(t, f.HealthScore, 100.0)
}

func TestBuild_QuickWinsBoundedByLimit(t *testing.T) {
	var files []model.FileAnalysis
	for i := 0; i < 20; i++ {
		files = append(files, model.FileAnalysis{
			Path:    "src/f" + string(rune('a'+i)) + ".ts",
			Exports: []model.ExportSymbol{{Name: "unused", Kind: "function"}},
		})
	}
	cfg := config.Default()
	cfg.Thresholds.QuickWinsLimit = 3
	f := Build(Inputs{Files: files, Config: cfg})
	assert.LessOrEqual(t, len(f.QuickWins), 3)
}

func TestBuildAgentBundle_TopDeadParrotsFromLeafHubs(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/leaf.ts"},
		{Path: "src/main.ts", EntryPoints: []string{"main"}},
	}
	f := Build(Inputs{Files: files})
	bundle := BuildAgentBundle(f, files, nil, nil)
	var sawLeaf bool
	for _, h := range bundle.TopDeadParrots {
		if h.Path == "src/leaf.ts" {
			sawLeaf = true
		}
	}
	assert.True(t, sawLeaf)
	assert.Len(t, bundle.SliceHints, len(bundle.Hubs))
}

func TestBuild_MemoryLintFoldedIntoFindings(t *testing.T) {
	root := fixtures.WriteTree(t, map[string]string{
		"src/cache.ts": `
const cache = new Map();

export function getData(key) {
    return cache.get(key);
}
`,
	})
	files := []model.FileAnalysis{{Path: "src/cache.ts", Language: model.LangTS}}

	f := Build(Inputs{Root: root, Files: files})
	require.Len(t, f.Lint, 1)
	assert.Equal(t, "mem/module-cache-unbounded", f.Lint[0].Rule)

	var sawMemoryWin bool
	for _, w := range f.QuickWins {
		if w.Action == model.QuickWinFixMemory {
			sawMemoryWin = true
		}
	}
	assert.True(t, sawMemoryWin)
}
