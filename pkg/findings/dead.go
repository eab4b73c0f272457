// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package findings computes the higher-order derived results spec
// §4.5 asks for: dead exports, exact twins, and barrel chaos. Grounded
// on the teacher's pkg/tools/summary.go aggregation shape and
// resolver.go's index-counting idiom, re-targeted from a Cozo query
// result set to plain Go slices over a Snapshot.
package findings

import (
	"path"
	"sort"
	"strings"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

// importerIndex maps "file#symbol" to the set of files that import
// that exported symbol (directly or via a named re-export), so both a
// yes/no check and an importer count are available.
type importerIndex struct {
	importedBy     map[string]map[string]bool
	namespaceUsers map[string]bool // files with a namespace import of this target
}

func buildImporterIndex(files []model.FileAnalysis) *importerIndex {
	idx := &importerIndex{importedBy: map[string]map[string]bool{}, namespaceUsers: map[string]bool{}}

	record := func(target, symbol, from string) {
		key := target + "#" + symbol
		if idx.importedBy[key] == nil {
			idx.importedBy[key] = map[string]bool{}
		}
		idx.importedBy[key][from] = true
	}

	for _, f := range files {
		for _, imp := range f.Imports {
			if imp.ResolvedPath == "" {
				continue
			}
			for _, sym := range imp.Symbols {
				record(imp.ResolvedPath, sym, f.Path)
			}
		}
		for _, target := range f.NamespaceImports {
			idx.namespaceUsers[target] = true
		}
		for _, rx := range f.Reexports {
			if rx.ResolvedPath == "" {
				continue
			}
			if rx.Kind == model.ReexportStar {
				idx.namespaceUsers[rx.ResolvedPath] = true
				continue
			}
			for _, nr := range rx.Named {
				record(rx.ResolvedPath, nr.Orig, f.Path)
			}
		}
	}
	return idx
}

func (idx *importerIndex) isImported(file, symbol string) bool {
	return len(idx.importedBy[file+"#"+symbol]) > 0
}

func (idx *importerIndex) importerCount(file, symbol string) int {
	return len(idx.importedBy[file+"#"+symbol])
}

func (idx *importerIndex) hasNamespaceReference(file string) bool {
	return idx.namespaceUsers[file]
}

// DeadExports finds every exported symbol with no detected consumer
// and grades its confidence (spec §4.5).
func DeadExports(files []model.FileAnalysis, ignore *config.IgnoreRules) []model.DeadExport {
	idx := buildImporterIndex(files)

	dynamicTargets := map[string]bool{}
	for _, f := range files {
		for _, d := range f.DynamicImports {
			dynamicTargets[d] = true
		}
	}

	var out []model.DeadExport
	for _, f := range files {
		if ignore.IsDeadOK(f.Path) {
			continue
		}
		if f.IsAmbient() {
			continue
		}
		isDynamicTarget := dynamicTargets[f.Path]

		for _, exp := range f.Exports {
			if idx.isImported(f.Path, exp.Name) {
				continue
			}
			if len(f.EntryPoints) > 0 {
				continue
			}
			if isDynamicTarget {
				continue
			}

			weakSignal := f.HasLocalUse(exp.Name) || idx.hasNamespaceReference(f.Path)

			confidence := model.DeadHigh
			if weakSignal {
				confidence = model.DeadLow
			}

			out = append(out, model.DeadExport{
				File:       f.Path,
				Symbol:     exp.Name,
				Kind:       exp.Kind,
				Confidence: confidence,
				Line:       exp.Line,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// filterByFlags drops dead-export candidates matching caller-provided
// exclusion filters: tests, helper files, library-example files, and
// (for Python) library-surface modules (spec §4.5: "can be excluded
// via filter flags").
func filterByFlags(files []model.FileAnalysis, dead []model.DeadExport, excludeTests, excludeHelpers, excludeExamples bool) []model.DeadExport {
	byPath := make(map[string]*model.FileAnalysis, len(files))
	for i := range files {
		byPath[files[i].Path] = &files[i]
	}

	var out []model.DeadExport
	for _, d := range dead {
		fa := byPath[d.File]
		if fa == nil {
			out = append(out, d)
			continue
		}
		if excludeTests && fa.IsTest {
			continue
		}
		if excludeHelpers && isHelperPath(d.File) {
			continue
		}
		if excludeExamples && isExamplePath(d.File) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func isHelperPath(p string) bool {
	base := strings.ToLower(path.Base(p))
	return strings.Contains(base, "helper") || strings.Contains(base, "testutil") || strings.Contains(base, "fixture")
}

func isExamplePath(p string) bool {
	lower := strings.ToLower(p)
	return strings.Contains(lower, "/example") || strings.Contains(lower, "/examples/") || strings.Contains(lower, "/demo")
}

// FilterOptions bundles the exclusion flags accepted at the CLI layer.
type FilterOptions struct {
	ExcludeTests    bool
	ExcludeHelpers  bool
	ExcludeExamples bool
}

// Filter applies FilterOptions to a DeadExports result.
func Filter(files []model.FileAnalysis, dead []model.DeadExport, opts FilterOptions) []model.DeadExport {
	return filterByFlags(files, dead, opts.ExcludeTests, opts.ExcludeHelpers, opts.ExcludeExamples)
}
