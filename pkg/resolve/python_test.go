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

func TestPythonResolver_NamespacePackage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "mod.py"), []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sibling.py"), []byte(""), 0o644))

	r := NewPythonResolver(root)
	got := r.Resolve("sibling.py", "pkg.mod", 0)
	assert.Equal(t, "pkg/mod.py", got)
}

func TestPythonResolver_RelativeImport(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "x.py"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "y.py"), []byte(""), 0o644))

	r := NewPythonResolver(root)
	got := r.Resolve("pkg/y.py", "x", 1)
	assert.Equal(t, "pkg/x.py", got)
}

func TestPythonResolver_InitPackage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "__init__.py"), []byte(""), 0o644))

	r := NewPythonResolver(root)
	got := r.Resolve("main.py", "pkg", 0)
	assert.Equal(t, "pkg/__init__.py", got)
}

func TestPythonResolver_Miss(t *testing.T) {
	root := t.TempDir()
	r := NewPythonResolver(root)
	assert.Equal(t, "", r.Resolve("main.py", "nope.mod", 0))
}
