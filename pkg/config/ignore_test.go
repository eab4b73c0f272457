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

func TestLoadIgnoreRules_MissingFile(t *testing.T) {
	root := t.TempDir()

	rules, err := LoadIgnoreRules(root)
	require.NoError(t, err)
	assert.False(t, rules.Ignores("src/anything.ts"))
	assert.False(t, rules.IsDeadOK("src/anything.ts"))
}

func TestLoadIgnoreRules_GitignoreStylePatterns(t *testing.T) {
	root := t.TempDir()
	content := "dist/\n*.generated.ts\nnode_modules/\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, IgnoreFileName), []byte(content), 0o644))

	rules, err := LoadIgnoreRules(root)
	require.NoError(t, err)
	assert.True(t, rules.Ignores("dist/bundle.js"))
	assert.True(t, rules.Ignores("src/api.generated.ts"))
	assert.False(t, rules.Ignores("src/index.ts"))
}

func TestLoadIgnoreRules_DeadOKAnnotations(t *testing.T) {
	root := t.TempDir()
	content := "dist/\n@loctignore:dead-ok src/legacy/**\n@loctignore:dead-ok src/examples/*.ts\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, IgnoreFileName), []byte(content), 0o644))

	rules, err := LoadIgnoreRules(root)
	require.NoError(t, err)
	assert.True(t, rules.IsDeadOK("src/legacy/old.ts"))
	assert.True(t, rules.IsDeadOK("src/examples/demo.ts"))
	assert.False(t, rules.IsDeadOK("src/index.ts"))
	assert.False(t, rules.Ignores("src/legacy/old.ts"))
}
