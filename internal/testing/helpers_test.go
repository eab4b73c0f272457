// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctreehq/loctree/pkg/model"
)

func TestWriteTree(t *testing.T) {
	root := WriteTree(t, map[string]string{
		"src/index.ts":       `export const x = 1;`,
		"src/nested/util.ts": `export function helper() {}`,
	})

	content, err := os.ReadFile(filepath.Join(root, "src", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, `export const x = 1;`, string(content))

	content, err = os.ReadFile(filepath.Join(root, "src", "nested", "util.ts"))
	require.NoError(t, err)
	assert.Equal(t, `export function helper() {}`, string(content))
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot(t,
		model.FileAnalysis{Path: "src/a.ts", Language: model.LangTS, LOC: 10},
		model.FileAnalysis{Path: "src/b.py", Language: model.LangPython, LOC: 5},
	)

	assert.Equal(t, model.SchemaVersion, snap.Metadata.Version)
	assert.Equal(t, 2, snap.Metadata.FileCount)
	assert.Equal(t, 15, snap.Metadata.TotalLOC)
	assert.ElementsMatch(t, []string{"ts", "py"}, snap.Metadata.Languages)
	require.NotNil(t, snap.FileByPath("src/a.ts"))
}

func TestAddEdges(t *testing.T) {
	snap := NewSnapshot(t,
		model.FileAnalysis{Path: "a.ts"},
		model.FileAnalysis{Path: "b.ts"},
	)

	AddEdges(snap, model.Edge{From: "a.ts", To: "b.ts", Label: model.EdgeImport})

	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "a.ts", snap.Edges[0].From)
}
