// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesTOML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ConfigDirName), 0o755))

	toml := `
command_macros = ["tauri::command", "rpc::command"]
command_functions = ["invoke"]
exclude_namespaces = ["vscode", "browser"]
invalid_command_names = ["then"]

[thresholds]
missing_barrel_min_files = 8
missing_barrel_min_importers = 4
deep_chain_length = 4
hub_core_in_degree = 12
hub_shared_in_degree = 4
search_fuzzy_threshold = 0.8
quick_wins_limit = 15
`
	require.NoError(t, os.WriteFile(Path(root), []byte(toml), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"tauri::command", "rpc::command"}, cfg.CommandMacros)
	assert.True(t, cfg.IsExcludedNamespace("browser"))
	assert.True(t, cfg.IsInvalidCommandName("then"))
	assert.Equal(t, 8, cfg.Thresholds.MissingBarrelMinFiles)
	assert.Equal(t, 0.8, cfg.Thresholds.SearchFuzzyThreshold)
}

func TestLoad_MalformedTOMLIsError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ConfigDirName), 0o755))
	require.NoError(t, os.WriteFile(Path(root), []byte("not = [valid toml"), 0o644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.CommandFunctions = append(cfg.CommandFunctions, "myInvoke")

	require.NoError(t, Save(root, cfg))

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Contains(t, loaded.CommandFunctions, "myInvoke")
}

func TestIsExcludedNamespace(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsExcludedNamespace("vscode"))
	assert.False(t, cfg.IsExcludedNamespace("react"))
}
