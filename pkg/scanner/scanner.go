// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package scanner walks one or more root directories, dispatches each
// discovered file to the matching pkg/extract.Extractor, and resolves
// cross-file import edges in a second pass (spec §4.1). Grounded on the
// teacher's repo_loader.go walkRepository (filepath.WalkDir, visited-set
// against symlink loops); the teacher's own hand-rolled glob matcher is
// replaced with github.com/bmatcuk/doublestar/v4 per spec §9's license
// to promote ad hoc matching without changing the contract.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/loctreehq/loctree/internal/errors"
	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/extract"
	"github.com/loctreehq/loctree/pkg/model"
	"github.com/loctreehq/loctree/pkg/resolve"
)

// Options configures a scan (spec §4.1's contract).
type Options struct {
	Roots          []string
	Extensions     []string // defaults to extract.DefaultExtensions
	IgnorePrefixes []string
	HonorGitignore bool
	ShowHidden     bool
	MaxDepth       int // 0 means unbounded
	Config         *config.Config
	Ignore         *config.IgnoreRules
	PyRaces        bool
	Prior          *model.Snapshot // for incremental reuse; nil disables it
	FingerprintCache *Cache        // persisted (path -> Fingerprint) store; nil disables reuse
	FullScan       bool            // disables incremental reuse even if Prior is set
}

// Result is one scan's output: a sorted file list plus resolved edges.
type Result struct {
	Files []model.FileAnalysis
	Edges []model.Edge
}

// Scan walks every root in opts.Roots, extracts each matching file,
// and resolves import edges. Files are returned sorted by Path for
// determinism (spec §4.1).
func Scan(opts Options) (*Result, error) {
	extensions := opts.Extensions
	if extensions == nil {
		extensions = extract.DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}

	var priorIndex map[string]*model.FileAnalysis
	var cache *Cache
	if opts.Prior != nil && opts.FingerprintCache != nil && !opts.FullScan {
		priorIndex = opts.Prior.Index()
		cache = opts.FingerprintCache
	}

	var all []model.FileAnalysis
	for _, root := range opts.Roots {
		st, err := os.Stat(root)
		if err != nil || !st.IsDir() {
			return nil, errors.NewUserInputError(
				fmt.Sprintf("root %q is not a directory", root),
				"scan roots must be existing directories",
				"check the path passed to --root",
			)
		}

		files, err := walkRoot(root, opts, extSet, priorIndex, cache)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })

	resolveStart := time.Now()
	edges := resolveEdges(opts.Roots, all, opts.Config)
	observeResolveDuration(time.Since(resolveStart))

	return &Result{Files: all, Edges: edges}, nil
}

// walkRoot performs the filesystem walk for a single root, returning
// FileAnalysis records with root-relative paths.
func walkRoot(root string, opts Options, extSet map[string]bool, priorIndex map[string]*model.FileAnalysis, cache *Cache) ([]model.FileAnalysis, error) {
	visited := map[string]bool{}
	var out []model.FileAnalysis

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Per-file IO errors demote that entry to skipped with a
			// warning (spec §7); the walk itself continues. An error on
			// the root itself aborts the scan.
			if path == root {
				return err
			}
			errors.Warn("skipping %s: %v", path, err)
			recordFileSkipped()
			return nil
		}

		abs, absErr := filepath.Abs(path)
		if absErr == nil {
			if visited[abs] {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			visited[abs] = true
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if rel != "." && !opts.ShowHidden && hasHiddenComponent(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if opts.MaxDepth > 0 && rel != "." {
			if strings.Count(rel, "/")+1 > opts.MaxDepth {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if matchesAnyPrefix(rel, opts.IgnorePrefixes) {
			recordFileSkipped()
			return nil
		}
		if opts.HonorGitignore && opts.Ignore != nil && opts.Ignore.Ignores(rel) {
			recordFileSkipped()
			return nil
		}
		if !extSet[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}

		lang, ex := extract.ForPath(rel, opts.Config, opts.PyRaces)
		if ex == nil {
			recordFileSkipped()
			return nil
		}

		fp, fpErr := ComputeFingerprint(path, rel, false)
		if fpErr == nil && priorIndex != nil && cache != nil {
			if prior, ok := priorIndex[rel]; ok {
				if old, known := cache.Get(rel); known && old.Matches(fp) {
					out = append(out, *prior)
					recordFileCached()
					return nil
				}
			}
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			// Per-file IO error: skip with a warning, never abort the scan.
			errors.Warn("skipping %s: %v", rel, readErr)
			recordFileSkipped()
			return nil
		}

		parseStart := time.Now()
		fa := ex.Extract(rel, content)
		observeParseDuration(time.Since(parseStart))
		fa.Language = lang
		out = append(out, fa)
		recordFileScanned()
		if cache != nil {
			if hashed, err := ComputeFingerprint(path, rel, true); err == nil {
				cache.Put(rel, hashed)
			} else {
				cache.Put(rel, fp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("failed walking "+root, err.Error(), "check directory permissions", err)
	}
	return out, nil
}

func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func matchesAnyPrefix(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if strings.HasPrefix(rel, p) {
			return true
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// resolveEdges runs the resolution pass: for every import/reexport
// whose resolved_path is unset, dispatch to the resolver appropriate
// to the file's language (spec §4.1's "resolution pass").
func resolveEdges(roots []string, files []model.FileAnalysis, cfg *config.Config) []model.Edge {
	if len(roots) == 0 {
		return nil
	}
	root := roots[0]

	ts := resolve.NewTSResolver(root)
	py := resolve.NewPythonResolver(root)
	rs := resolve.NewRustResolver(root)

	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.Path] = true
	}

	var edges []model.Edge
	seen := map[string]bool{}
	addEdge := func(from, to string, label model.EdgeLabel) {
		if to == "" || !known[to] {
			return
		}
		key := from + "->" + to + "->" + string(label)
		if seen[key] {
			return
		}
		seen[key] = true
		edges = append(edges, model.Edge{From: from, To: to, Label: label})
	}

	for i := range files {
		f := &files[i]
		for j := range f.Imports {
			imp := &f.Imports[j]
			resolved := resolveImport(f, imp, ts, py, rs)
			imp.ResolvedPath = resolved
			addEdge(f.Path, resolved, model.EdgeImport)
		}
		for j := range f.Reexports {
			rx := &f.Reexports[j]
			resolved := resolveReexport(f, rx, ts, py, rs)
			rx.ResolvedPath = resolved
			addEdge(f.Path, resolved, model.EdgeReexport)
		}
	}

	return edges
}

func resolveImport(f *model.FileAnalysis, imp *model.ImportEntry, ts *resolve.TSResolver, py *resolve.PythonResolver, rs *resolve.RustResolver) string {
	switch f.Language {
	case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX, model.LangMJS, model.LangCJS,
		model.LangVue, model.LangSvelte:
		return ts.Resolve(f.Path, imp.Source)
	case model.LangPython:
		dots := 0
		if imp.IsSelfRelative {
			dots = 1
		} else if imp.IsSuperRelative {
			dots = relativeDotsFromRaw(imp.SourceRaw)
		}
		return py.Resolve(f.Path, imp.Source, dots)
	case model.LangRust:
		return rs.Resolve(f.Path, imp.Source)
	default:
		return ""
	}
}

func resolveReexport(f *model.FileAnalysis, rx *model.ReexportEntry, ts *resolve.TSResolver, py *resolve.PythonResolver, rs *resolve.RustResolver) string {
	switch f.Language {
	case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX, model.LangMJS, model.LangCJS,
		model.LangVue, model.LangSvelte:
		return ts.Resolve(f.Path, rx.Source)
	case model.LangRust:
		return rs.Resolve(f.Path, rx.Source)
	default:
		return ""
	}
}

// relativeDotsFromRaw recovers the leading-dot count from a raw
// `from ..pkg import z` statement when the extractor only recorded
// IsSuperRelative as a boolean (spec §4.2's Python relative-import
// dot-counting needs the exact count for the resolver's upward walk).
func relativeDotsFromRaw(raw string) int {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "from"))
	dots := 0
	for _, r := range trimmed {
		if r == '.' {
			dots++
			continue
		}
		break
	}
	if dots == 0 {
		return 2
	}
	return dots
}
