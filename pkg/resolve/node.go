// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// NodeExtensions is the default extension probe order for the JS
// relative resolver (spec §4.3).
var NodeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// NodeResolver resolves relative (`./x`, `../x`) specifiers by
// appending configured extensions, then falling back to `index` plus
// each configured extension when the candidate is a directory (spec
// §4.3, "JS relative resolver").
type NodeResolver struct {
	Root       string
	Extensions []string
	fs         fileChecker
}

// fileChecker abstracts os.Stat so tests can inject a fake filesystem
// without touching disk.
type fileChecker interface {
	Exists(path string) bool
	IsDir(path string) bool
}

type osChecker struct{}

func (osChecker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osChecker) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// NewNodeResolver builds a relative-import resolver rooted at root.
func NewNodeResolver(root string) *NodeResolver {
	return &NodeResolver{Root: root, Extensions: NodeExtensions, fs: osChecker{}}
}

// Resolve takes the importing file's directory and a relative
// specifier, and returns a root-relative path if a file exists, or
// "" on a resolution miss (spec §7: ResolutionMiss is silent).
func (r *NodeResolver) Resolve(fromDir, spec string) string {
	if !strings.HasPrefix(spec, ".") {
		return ""
	}
	candidate := filepath.Join(fromDir, spec)

	if r.fs.Exists(candidate) && !r.fs.IsDir(candidate) {
		return r.toRepoRelative(candidate)
	}

	for _, ext := range r.Extensions {
		withExt := candidate + ext
		if r.fs.Exists(withExt) {
			return r.toRepoRelative(withExt)
		}
	}

	if r.fs.IsDir(candidate) {
		for _, ext := range r.Extensions {
			indexFile := filepath.Join(candidate, "index"+ext)
			if r.fs.Exists(indexFile) {
				return r.toRepoRelative(indexFile)
			}
		}
	}

	return ""
}

func (r *NodeResolver) toRepoRelative(abs string) string {
	rel, err := filepath.Rel(r.Root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}
