// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctreehq/loctree/pkg/model"
)

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Files: []model.FileAnalysis{
			{Path: "src/a.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
			{Path: "src/b.ts", Imports: []model.ImportEntry{{Source: "./a", ResolvedPath: "src/a.ts", Symbols: []string{"formatDate"}}}},
			{Path: "src/c.ts", Imports: []model.ImportEntry{{Source: "./b", ResolvedPath: "src/b.ts"}}},
			{Path: "src/utils/d.ts", Exports: []model.ExportSymbol{{Name: "unused", Kind: "function"}}},
		},
		Edges: []model.Edge{
			{From: "src/b.ts", To: "src/a.ts", Label: model.EdgeImport},
			{From: "src/c.ts", To: "src/b.ts", Label: model.EdgeImport},
		},
	}
}

func TestSlice_DepsAndConsumers(t *testing.T) {
	snap := testSnapshot()
	res := Slice(snap, "src/b.ts", true)
	assert.Equal(t, []string{"src/a.ts"}, res.Deps)
	assert.Equal(t, []string{"src/c.ts"}, res.Consumers)
}

func TestFocus_PartitionsInternalExternal(t *testing.T) {
	snap := testSnapshot()
	res := Focus(snap, "src")
	assert.Contains(t, res.Core, "src/a.ts")
	assert.NotContains(t, res.Core, "src/utils/d.ts")
}

func TestImpact_DirectAndTransitive(t *testing.T) {
	snap := testSnapshot()
	res := Impact(snap, "src/a.ts", 0)
	assert.Equal(t, []string{"src/b.ts"}, res.Direct)
	assert.Contains(t, res.Transitive, "src/c.ts")
}

func TestImpact_DepthBound(t *testing.T) {
	snap := testSnapshot()
	res := Impact(snap, "src/a.ts", 1)
	assert.Empty(t, res.Transitive)
}

func TestSearch_ExactMatch(t *testing.T) {
	snap := testSnapshot()
	res := Search(snap, "formatDate", 0)
	require.Len(t, res.Exact, 1)
	assert.Equal(t, "src/a.ts", res.Exact[0].File)
}

func TestSearch_FuzzyMatch(t *testing.T) {
	snap := testSnapshot()
	res := Search(snap, "formatDates", 0.7)
	require.NotEmpty(t, res.Fuzzy)
}

func TestSearch_DeadFacet(t *testing.T) {
	snap := testSnapshot()
	res := Search(snap, "unused", 0)
	require.Len(t, res.Exact, 1)
	assert.True(t, res.Exact[0].Dead)
}

func TestMultiSearch_AndIntersection(t *testing.T) {
	snap := testSnapshot()
	results := MultiSearch(snap, []string{"formatDate", "unused"}, JoinAnd, 0)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Intersection)
}

func TestMultiSearch_OrUnion(t *testing.T) {
	snap := testSnapshot()
	results := MultiSearch(snap, []string{"formatDate", "unused"}, JoinOr, 0)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Exact, 2)
}
