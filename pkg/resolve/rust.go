// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"path/filepath"
	"strings"
)

// RustResolver resolves `crate::`, `super::`, and `self::` specifiers
// by walking module boundaries from the crate root (spec §4.3).
// External crates (no path-separator form and no recognized relative
// prefix) resolve to "" by design.
type RustResolver struct {
	Root string
}

// NewRustResolver builds a resolver rooted at root.
func NewRustResolver(root string) *RustResolver {
	return &RustResolver{Root: root}
}

// Resolve takes the importing file's root-relative path and a `use`
// spec's Source (already stripped of its trailing `::{...}`/`::*`, see
// pkg/extract/rust.go's normalizeUsePath).
func (r *RustResolver) Resolve(fromRelPath, spec string) string {
	crateRoot, ok := r.findCrateRoot(fromRelPath)
	if !ok {
		return ""
	}

	switch {
	case strings.HasPrefix(spec, "crate::"):
		return r.probeModulePath(crateRoot, strings.TrimPrefix(spec, "crate::"))
	case strings.HasPrefix(spec, "self::"):
		fromDir := filepath.Join(r.Root, filepath.Dir(fromRelPath))
		return r.probeModulePath(fromDir, strings.TrimPrefix(spec, "self::"))
	case strings.HasPrefix(spec, "super::"):
		fromDir := filepath.Join(r.Root, filepath.Dir(fromRelPath))
		rest := spec
		base := fromDir
		for strings.HasPrefix(rest, "super::") {
			base = filepath.Dir(base)
			rest = strings.TrimPrefix(rest, "super::")
		}
		return r.probeModulePath(base, rest)
	default:
		// external crate or stdlib prefix — not resolved (spec §4.3).
		return ""
	}
}

// findCrateRoot locates Cargo.toml by walking upward from fromRelPath
// and returns the src/ directory beneath it.
func (r *RustResolver) findCrateRoot(fromRelPath string) (string, bool) {
	dir := filepath.Join(r.Root, filepath.Dir(fromRelPath))
	for {
		if fileExists(filepath.Join(dir, "Cargo.toml")) {
			src := filepath.Join(dir, "src")
			if dirExists(src) {
				return src, true
			}
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir || !strings.HasPrefix(dir, r.Root) {
			return "", false
		}
		dir = parent
	}
}

// probeModulePath walks `a::b::c` under base, probing at each segment
// (in order) `base/seg.rs`, `base/seg/mod.rs`, and deeper nesting
// (spec §4.3).
func (r *RustResolver) probeModulePath(base, modPath string) string {
	if modPath == "" {
		return r.toRepoRelative(filepath.Join(base, "mod.rs"))
	}
	segments := strings.Split(modPath, "::")
	dir := base
	for i, seg := range segments {
		isLast := i == len(segments)-1
		if isLast {
			if f := filepath.Join(dir, seg+".rs"); fileExists(f) {
				return r.toRepoRelative(f)
			}
			if f := filepath.Join(dir, seg, "mod.rs"); fileExists(f) {
				return r.toRepoRelative(f)
			}
			// Re-exported item inside a sibling module file; resolve to
			// that module file itself (the graph edge is file-to-file).
			if dirExists(filepath.Join(dir, seg)) {
				return r.probeModulePath(filepath.Join(dir, seg), "")
			}
			return ""
		}
		next := filepath.Join(dir, seg)
		if !dirExists(next) {
			// try `seg.rs` containing a further-nested module declaration
			if fileExists(next + ".rs") {
				dir = next
				continue
			}
			return ""
		}
		dir = next
	}
	return ""
}

func (r *RustResolver) toRepoRelative(abs string) string {
	rel, err := filepath.Rel(r.Root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}
