// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/loctreehq/loctree/internal/testing"
	"github.com/loctreehq/loctree/pkg/query"
)

func TestScanThenSlice_EndToEnd(t *testing.T) {
	root := fixtures.WriteTree(t, map[string]string{
		"src/a.ts": `export function formatDate() { return "" }`,
		"src/b.ts": `import { formatDate } from "./a"; formatDate();`,
	})

	runScan([]string{"--root", root})

	out := filepath.Join(root, "slice.json")
	runSlice([]string{"--root", root, "--json-out", out, "src/b.ts"})

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var res query.SliceResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "src/b.ts", res.Target)
	assert.Contains(t, res.Deps, "src/a.ts")
}

func TestScanThenFindings_EndToEnd(t *testing.T) {
	root := fixtures.WriteTree(t, map[string]string{
		"src/a.ts": `export function unused() { return 1 }`,
	})

	runScan([]string{"--root", root})

	out := filepath.Join(root, "findings.json")
	runFindings([]string{"--root", root, "--json-out", out})

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "health_score")
}

func TestDeadLabel(t *testing.T) {
	assert.Equal(t, "high", deadLabel(true))
	assert.Equal(t, "low", deadLabel(false))
}
