// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctreehq/loctree/pkg/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan_DiscoversAndExtractsFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", `import { helper } from "./helper";`)
	writeFile(t, root, "src/helper.ts", `export function helper() { return 1; }`)
	writeFile(t, root, "README.md", "ignored, wrong extension")

	result, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)

	paths := map[string]bool{}
	for _, f := range result.Files {
		paths[f.Path] = true
	}
	assert.True(t, paths["src/index.ts"])
	assert.True(t, paths["src/helper.ts"])
	assert.False(t, paths["README.md"])
}

func TestScan_FilesSortedByPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.ts", `export const z = 1;`)
	writeFile(t, root, "a.ts", `export const a = 1;`)

	result, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "a.ts", result.Files[0].Path)
	assert.Equal(t, "z.ts", result.Files[1].Path)
}

func TestScan_HiddenFilesSkippedByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".hidden/inner.ts", `export const x = 1;`)
	writeFile(t, root, "visible.ts", `export const y = 1;`)

	result, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)

	for _, f := range result.Files {
		assert.NotContains(t, f.Path, ".hidden")
	}
}

func TestScan_ShowHiddenIncludesDotDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".config/extra.ts", `export const x = 1;`)

	result, err := Scan(Options{Roots: []string{root}, ShowHidden: true})
	require.NoError(t, err)

	found := false
	for _, f := range result.Files {
		if f.Path == ".config/extra.ts" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScan_IgnorePrefixExcludesMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "vendor/lib.ts", `export const x = 1;`)
	writeFile(t, root, "src/main.ts", `export const y = 1;`)

	result, err := Scan(Options{Roots: []string{root}, IgnorePrefixes: []string{"vendor/"}})
	require.NoError(t, err)

	for _, f := range result.Files {
		assert.NotContains(t, f.Path, "vendor")
	}
}

func TestScan_ResolvesRelativeImportEdges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", `import { helper } from "./helper";`)
	writeFile(t, root, "src/helper.ts", `export function helper() { return 1; }`)

	result, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)

	require.Len(t, result.Edges, 1)
	assert.Equal(t, "src/index.ts", result.Edges[0].From)
	assert.Equal(t, "src/helper.ts", result.Edges[0].To)
	assert.Equal(t, model.EdgeImport, result.Edges[0].Label)
}

func TestScan_UnresolvableImportProducesNoEdge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", `import { z } from "some-external-package";`)

	result, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)
	assert.Empty(t, result.Edges)
}

func TestScan_NonDirectoryRootIsUserInputError(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Scan(Options{Roots: []string{file}})
	assert.Error(t, err)
}

func TestScan_MaxDepthLimitsDescent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b/c/deep.ts", `export const x = 1;`)
	writeFile(t, root, "shallow.ts", `export const y = 1;`)

	result, err := Scan(Options{Roots: []string{root}, MaxDepth: 1})
	require.NoError(t, err)

	for _, f := range result.Files {
		assert.NotContains(t, f.Path, "deep.ts")
	}
}

func TestScan_IncrementalReuseSkipsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", `export const a = 1;`)

	first, err := Scan(Options{Roots: []string{root}, FingerprintCache: NewCache()})
	require.NoError(t, err)
	require.Len(t, first.Files, 1)

	prior := &model.Snapshot{Files: first.Files}
	cache := NewCache()
	for _, f := range first.Files {
		fp, fpErr := ComputeFingerprint(filepath.Join(root, f.Path), f.Path, true)
		require.NoError(t, fpErr)
		cache.Put(f.Path, fp)
	}

	second, err := Scan(Options{Roots: []string{root}, Prior: prior, FingerprintCache: cache})
	require.NoError(t, err)
	require.Len(t, second.Files, 1)
	assert.Equal(t, first.Files[0].Exports, second.Files[0].Exports)
}

func TestScan_IncrementalReuseDetectsChangedContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", `export const a = 1;`)

	first, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)

	prior := &model.Snapshot{Files: first.Files}
	cache := NewCache()
	for _, f := range first.Files {
		fp, fpErr := ComputeFingerprint(filepath.Join(root, f.Path), f.Path, true)
		require.NoError(t, fpErr)
		cache.Put(f.Path, fp)
	}

	writeFile(t, root, "src/a.ts", `export const a = 2; export const b = 3;`)

	second, err := Scan(Options{Roots: []string{root}, Prior: prior, FingerprintCache: cache})
	require.NoError(t, err)
	require.Len(t, second.Files, 1)
	assert.Len(t, second.Files[0].Exports, 2)
}

func TestScan_FullScanIgnoresCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", `export const a = 1;`)

	first, err := Scan(Options{Roots: []string{root}})
	require.NoError(t, err)

	prior := &model.Snapshot{Files: first.Files}
	cache := NewCache()
	for _, f := range first.Files {
		fp, _ := ComputeFingerprint(filepath.Join(root, f.Path), f.Path, true)
		cache.Put(f.Path, fp)
	}

	second, err := Scan(Options{Roots: []string{root}, Prior: prior, FingerprintCache: cache, FullScan: true})
	require.NoError(t, err)
	require.Len(t, second.Files, 1)
}

func TestCache_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := NewCache()
	c.Put("src/a.ts", model.Fingerprint{Path: "src/a.ts", Size: 10, ContentHash: "deadbeef"})
	require.NoError(t, c.Save(path))

	loaded, err := LoadCache(path)
	require.NoError(t, err)
	fp, ok := loaded.Get("src/a.ts")
	require.True(t, ok)
	assert.Equal(t, "deadbeef", fp.ContentHash)
}

func TestCache_LoadMissingFileReturnsEmpty(t *testing.T) {
	c, err := LoadCache(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	_, ok := c.Get("whatever")
	assert.False(t, ok)
}
