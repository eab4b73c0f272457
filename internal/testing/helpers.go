// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing carries shared fixture-builder helpers used across
// loctree's package tests: writing a small source tree to a temp
// directory, and assembling a model.Snapshot by hand without running
// a full scan. Adapted from the teacher's internal/testing/helpers.go,
// which seeded an embedded CozoDB backend for graph-query tests; this
// module has no database, so the helpers build the same shape of
// thing loctree actually persists — a model.Snapshot.
package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loctreehq/loctree/pkg/model"
)

// WriteTree materializes a fixture source tree in a fresh temp
// directory. files maps a repo-relative path to its content. The
// directory is automatically removed when the test finishes.
//
// Example:
//
//	root := testing.WriteTree(t, map[string]string{
//	    "src/index.ts": `export const x = 1;`,
//	    "src/util.ts":  `export function helper() {}`,
//	})
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

// NewSnapshot builds a model.Snapshot from a set of FileAnalysis
// records, filling in metadata so the result round-trips through
// pkg/snapshot like one produced by a real scan.
//
// Example:
//
//	snap := testing.NewSnapshot(t,
//	    model.FileAnalysis{Path: "src/a.ts", Language: model.LangTS},
//	    model.FileAnalysis{Path: "src/b.ts", Language: model.LangTS},
//	)
func NewSnapshot(t *testing.T, files ...model.FileAnalysis) *model.Snapshot {
	t.Helper()

	totalLOC := 0
	langSet := map[string]bool{}
	for _, f := range files {
		totalLOC += f.LOC
		langSet[string(f.Language)] = true
	}
	langs := make([]string, 0, len(langSet))
	for l := range langSet {
		langs = append(langs, l)
	}

	return &model.Snapshot{
		Metadata: model.Metadata{
			Version:   model.SchemaVersion,
			CreatedAt: time.Now(),
			Roots:     []string{"."},
			FileCount: len(files),
			TotalLOC:  totalLOC,
			Languages: langs,
		},
		Files: files,
	}
}

// AddEdges appends import/reexport edges to a snapshot in-place,
// returning it for chaining.
//
// Example:
//
//	snap := testing.NewSnapshot(t, fileA, fileB)
//	testing.AddEdges(snap, model.Edge{From: "a.ts", To: "b.ts", Label: model.EdgeImport})
func AddEdges(snap *model.Snapshot, edges ...model.Edge) *model.Snapshot {
	snap.Edges = append(snap.Edges, edges...)
	return snap
}
