// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// TSResolver resolves a non-relative TS/JS specifier, in order: paths
// mappings, package.json exports, then baseUrl + spec (spec §4.3).
// Relative specifiers are delegated to NodeResolver.
type TSResolver struct {
	Root   string
	Node   *NodeResolver
	Config *TSConfig
	cache  *Cache
}

// NewTSResolver builds a resolver rooted at root, loading tsconfig.json
// if present under root (or any ancestor, though callers typically
// pass root itself as the search start).
func NewTSResolver(root string) *TSResolver {
	cfg, _ := LoadTSConfig(root)
	return &TSResolver{
		Root: root, Node: NewNodeResolver(root), Config: cfg, cache: NewCache(),
	}
}

// Resolve takes the importing file's root-relative path and the raw
// specifier, returning a root-relative resolved path or "" on a miss.
func (r *TSResolver) Resolve(fromRelPath, spec string) string {
	if strings.HasPrefix(spec, ".") {
		fromDir := filepath.Join(r.Root, filepath.Dir(fromRelPath))
		return r.Node.Resolve(fromDir, spec)
	}

	if cached, ok := r.cache.Get(fromRelPath, spec); ok {
		return cached
	}
	resolved := r.resolveNonRelative(spec)
	r.cache.Put(fromRelPath, spec, resolved)
	return resolved
}

func (r *TSResolver) resolveNonRelative(spec string) string {
	if r.Config != nil {
		for _, target := range r.Config.ResolveAlias(spec) {
			candidate := filepath.Join(r.Config.dir, target)
			if resolved := r.probeExtensions(candidate); resolved != "" {
				return resolved
			}
		}
	}

	if pe, ok := LoadPackageExports(r.Root); ok {
		if target, found := pe.Resolve("./" + strings.TrimPrefix(spec, "./")); found {
			if resolved := r.probeExtensions(filepath.Join(r.Root, target)); resolved != "" {
				return resolved
			}
		}
	}

	if r.Config != nil && r.Config.BaseURL != "" {
		candidate := filepath.Join(r.Config.BaseURL, spec)
		if resolved := r.probeExtensions(candidate); resolved != "" {
			return resolved
		}
	}

	return ""
}

func (r *TSResolver) probeExtensions(candidate string) string {
	if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
		return r.Node.toRepoRelative(candidate)
	}
	for _, ext := range r.Node.Extensions {
		if _, err := os.Stat(candidate + ext); err == nil {
			return r.Node.toRepoRelative(candidate + ext)
		}
	}
	for _, ext := range r.Node.Extensions {
		idx := filepath.Join(candidate, "index"+ext)
		if _, err := os.Stat(idx); err == nil {
			return r.Node.toRepoRelative(idx)
		}
	}
	return ""
}
