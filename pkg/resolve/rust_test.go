// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRustCrate(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[package]\nname=\"x\"\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
}

func TestRustResolver_CrateRelative(t *testing.T) {
	root := t.TempDir()
	writeRustCrate(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "b.rs"), []byte("pub struct Y;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.rs"), []byte("use crate::b::Y;"), 0o644))

	r := NewRustResolver(root)
	got := r.Resolve("src/a.rs", "crate::b")
	assert.Equal(t, "src/b.rs", got)
}

func TestRustResolver_ModDirectory(t *testing.T) {
	root := t.TempDir()
	writeRustCrate(t, root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "widgets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "widgets", "mod.rs"), []byte(""), 0o644))

	r := NewRustResolver(root)
	got := r.Resolve("src/main.rs", "crate::widgets")
	assert.Equal(t, "src/widgets/mod.rs", got)
}

func TestRustResolver_ExternalCrateMisses(t *testing.T) {
	root := t.TempDir()
	writeRustCrate(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.rs"), []byte(""), 0o644))

	r := NewRustResolver(root)
	assert.Equal(t, "", r.Resolve("src/a.rs", "serde::Deserialize"))
}

func TestRustResolver_SuperRelative(t *testing.T) {
	root := t.TempDir()
	writeRustCrate(t, root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "sibling.rs"), []byte(""), 0o644))

	r := NewRustResolver(root)
	got := r.Resolve("src/nested/child.rs", "super::sibling")
	assert.Equal(t, "src/sibling.rs", got)
}
