// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

func TestDeadExports_HighConfidenceWhenNeverReferenced(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/unused.ts", Exports: []model.ExportSymbol{{Name: "helper", Kind: "function"}}},
		{Path: "src/main.ts"},
	}
	dead := DeadExports(files, &config.IgnoreRules{})
	require.Len(t, dead, 1)
	assert.Equal(t, model.DeadHigh, dead[0].Confidence)
	assert.Equal(t, "helper", dead[0].Symbol)
}

func TestDeadExports_NotReportedWhenImported(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/lib.ts", Exports: []model.ExportSymbol{{Name: "helper", Kind: "function"}}},
		{Path: "src/main.ts", Imports: []model.ImportEntry{{Source: "./lib", ResolvedPath: "src/lib.ts", Symbols: []string{"helper"}}}},
	}
	dead := DeadExports(files, &config.IgnoreRules{})
	assert.Empty(t, dead)
}

func TestDeadExports_EntryPointNeverReported(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/main.ts", Exports: []model.ExportSymbol{{Name: "main", Kind: "function"}}, EntryPoints: []string{"main"}},
	}
	dead := DeadExports(files, &config.IgnoreRules{})
	assert.Empty(t, dead)
}

func TestDeadExports_AmbientFileNeverReported(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/types.d.ts", Exports: []model.ExportSymbol{{Name: "Widget", Kind: "interface"}}},
	}
	dead := DeadExports(files, &config.IgnoreRules{})
	assert.Empty(t, dead)
}

func TestDeadExports_LowConfidenceWithLocalUseOnly(t *testing.T) {
	files := []model.FileAnalysis{
		{
			Path:      "src/lib.ts",
			Exports:   []model.ExportSymbol{{Name: "helper", Kind: "function"}},
			LocalUses: []string{"helper"},
		},
	}
	dead := DeadExports(files, &config.IgnoreRules{})
	require.Len(t, dead, 1)
	assert.Equal(t, model.DeadLow, dead[0].Confidence)
}

func TestTwins_GroupsAcrossFiles(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
		{Path: "src/b.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
		{Path: "src/c.ts", Exports: []model.ExportSymbol{{Name: "unique", Kind: "function"}}},
	}
	twins := Twins(files)
	require.Len(t, twins, 1)
	assert.Equal(t, "formatDate", twins[0].Symbol)
	assert.ElementsMatch(t, []string{"src/a.ts", "src/b.ts"}, twins[0].Files)
}

func TestTwins_CanonicalPrefersMoreImporters(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
		{Path: "src/b.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
		{Path: "src/user1.ts", Imports: []model.ImportEntry{{Source: "./b", ResolvedPath: "src/b.ts", Symbols: []string{"formatDate"}}}},
		{Path: "src/user2.ts", Imports: []model.ImportEntry{{Source: "./b", ResolvedPath: "src/b.ts", Symbols: []string{"formatDate"}}}},
	}
	twins := Twins(files)
	require.Len(t, twins, 1)
	assert.Equal(t, "src/b.ts", twins[0].Canonical)
}

func TestTwins_CanonicalPrefersNonTestOnTie(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
		{Path: "src/a_test.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}, IsTest: true},
	}
	twins := Twins(files)
	require.Len(t, twins, 1)
	assert.Equal(t, "src/a.ts", twins[0].Canonical)
}

func TestTwins_CrossLanguageFlag(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Language: model.LangTS, Exports: []model.ExportSymbol{{Name: "UserId", Kind: "type"}}},
		{Path: "src/b.rs", Language: model.LangRust, Exports: []model.ExportSymbol{{Name: "UserId", Kind: "struct"}}},
	}
	twins := Twins(files)
	require.Len(t, twins, 1)
	assert.True(t, twins[0].CrossLanguage)
}

func TestBarrels_MissingBarrelReported(t *testing.T) {
	thresholds := config.Thresholds{MissingBarrelMinFiles: 2, MissingBarrelMinImporters: 1}
	files := []model.FileAnalysis{
		{Path: "src/utils/a.ts"},
		{Path: "src/utils/b.ts"},
		{Path: "src/main.ts", Imports: []model.ImportEntry{{Source: "./utils/a", ResolvedPath: "src/utils/a.ts"}}},
	}
	findings := missingBarrels(files, thresholds)
	require.Len(t, findings, 1)
	assert.Equal(t, model.BarrelMissing, findings[0].Kind)
	assert.Equal(t, "src/utils/", findings[0].Target)
}

func TestBarrels_HasBarrelSuppressesFinding(t *testing.T) {
	thresholds := config.Thresholds{MissingBarrelMinFiles: 2, MissingBarrelMinImporters: 1}
	files := []model.FileAnalysis{
		{Path: "src/utils/a.ts"},
		{Path: "src/utils/b.ts"},
		{Path: "src/utils/index.ts"},
		{Path: "src/main.ts", Imports: []model.ImportEntry{{Source: "./utils", ResolvedPath: "src/utils/a.ts"}}},
	}
	assert.Empty(t, missingBarrels(files, thresholds))
}

func TestBarrels_DeepChainDetected(t *testing.T) {
	thresholds := config.Thresholds{DeepChainLength: 2}
	files := []model.FileAnalysis{
		{Path: "src/a.ts", Reexports: []model.ReexportEntry{{Source: "./b", Kind: model.ReexportStar, ResolvedPath: "src/b.ts"}}},
		{Path: "src/b.ts", Reexports: []model.ReexportEntry{{Source: "./c", Kind: model.ReexportStar, ResolvedPath: "src/c.ts"}}},
		{Path: "src/c.ts"},
	}
	findings := deepChains(files, thresholds)
	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].Length)
}

func TestBarrels_InconsistentPathDetected(t *testing.T) {
	files := []model.FileAnalysis{
		{Path: "src/utils/date.ts", Exports: []model.ExportSymbol{{Name: "formatDate", Kind: "function"}}},
		{Path: "src/user1.ts", Imports: []model.ImportEntry{{Source: "../utils/date", ResolvedPath: "src/utils/date.ts", Symbols: []string{"formatDate"}}}},
		{Path: "src/user2.ts", Imports: []model.ImportEntry{{Source: "../index", ResolvedPath: "src/utils/date.ts", Symbols: []string{"formatDate"}}}},
	}
	findings := inconsistentPaths(files)
	require.Len(t, findings, 1)
	assert.Equal(t, model.BarrelInconsistent, findings[0].Kind)
	assert.Equal(t, "formatDate", findings[0].Target)
}
