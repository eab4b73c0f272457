// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package model defines the data shapes shared by every loctree
// component: the per-file FileAnalysis record produced by extractors,
// and the Snapshot that aggregates them. Nothing in this package reads
// a file or parses anything; it is a plain data layer, grounded on the
// teacher's pkg/tools/types.go (FunctionInfo/FileInfo/CallerInfo) and
// pkg/ingestion/ids.go entity shapes — structs only, no ORM tags.
package model

// Language enumerates the source languages loctree understands.
// "unknown" is a first-class value: files that don't match any
// extractor still get a FileAnalysis with Language = Unknown.
type Language string

const (
	LangTS      Language = "ts"
	LangTSX     Language = "tsx"
	LangJS      Language = "js"
	LangJSX     Language = "jsx"
	LangMJS     Language = "mjs"
	LangCJS     Language = "cjs"
	LangRust    Language = "rs"
	LangCSS     Language = "css"
	LangPython  Language = "py"
	LangVue     Language = "vue"
	LangSvelte  Language = "svelte"
	LangUnknown Language = "unknown"
)

// FileKind classifies the role a file plays, independent of language.
type FileKind string

const (
	KindSource    FileKind = "source"
	KindTest      FileKind = "test"
	KindGenerated FileKind = "generated"
	KindConfig    FileKind = "config"
	KindAmbient   FileKind = "ambient" // .d.ts and similar declaration-only files
)

// ImportKind distinguishes a normal binding import from a side-effect-only one.
type ImportKind string

const (
	ImportStatic     ImportKind = "static"
	ImportSideEffect ImportKind = "side_effect"
)

// ImportEntry is one import statement (or Rust use/mod declaration)
// discovered in a file. Not every field applies to every language;
// unused fields are left at their zero value.
type ImportEntry struct {
	Source      string     `json:"source"`                 // normalized import specifier
	SourceRaw   string     `json:"source_raw"`              // as written in source
	Kind        ImportKind `json:"kind"`
	ResolvedPath string    `json:"resolved_path,omitempty"` // set by the resolution pass
	IsBare      bool       `json:"is_bare,omitempty"`       // bare package specifier (node_modules / external crate)
	Symbols     []string   `json:"symbols,omitempty"`
	RawPath     string     `json:"raw_path,omitempty"`

	// Rust-specific relative-path markers.
	IsCrateRelative   bool `json:"is_crate_relative,omitempty"`
	IsSuperRelative   bool `json:"is_super_relative,omitempty"`
	IsSelfRelative    bool `json:"is_self_relative,omitempty"`
	IsModDeclaration  bool `json:"is_mod_declaration,omitempty"`
	Line              int  `json:"line,omitempty"`
}

// ReexportKind distinguishes `export * from` from `export {a as b} from`.
type ReexportKind string

const (
	ReexportStar  ReexportKind = "star"
	ReexportNamed ReexportKind = "named"
)

// NamedReexport records one (original, exported) name pair. In the
// common barrel-index case orig == exported.
type NamedReexport struct {
	Orig     string `json:"orig"`
	Exported string `json:"exported"`
}

// ReexportEntry is a re-export edge: `export * from "./x"` or
// `pub use foo::{Bar, Baz as Qux}`.
type ReexportEntry struct {
	Source       string          `json:"source"`
	Kind         ReexportKind    `json:"kind"`
	Named        []NamedReexport `json:"named,omitempty"`
	ResolvedPath string          `json:"resolved_path,omitempty"`
	Line         int             `json:"line,omitempty"`
}

// ExportSymbol is one exported identifier. Default exports are
// renamed to the synthetic Name "default" so that `import X from
// "./m"` can match an anonymous default export; the original
// identifier survives in ExportType (spec §9, default-export
// name normalization).
type ExportSymbol struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"` // function, class, const, interface, type, struct, enum, trait, ...
	ExportType string   `json:"export_type,omitempty"`
	Line       int      `json:"line,omitempty"`
	Params     []string `json:"params,omitempty"`
}

// CommandRef is an RPC call site or handler declaration: a frontend
// `invoke("name", …)` call, or a backend `#[tauri::command] fn name`.
type CommandRef struct {
	Name         string `json:"name"`
	Line         int    `json:"line"`
	GenericType  string `json:"generic_type,omitempty"`
	ExposedName  string `json:"exposed_name,omitempty"`
	PluginName   string `json:"plugin_name,omitempty"`
	Payload      string `json:"payload,omitempty"`
}

// EventSite is an emit or listen call site for a string-constant event.
type EventSite struct {
	Name      string `json:"name"`
	Line      int    `json:"line"`
	IsDynamic bool   `json:"is_dynamic,omitempty"` // came from a format!(...)-style pattern, * wildcards substituted
}

// RaceRisk classifies a Python concurrency-pattern finding.
type RaceRisk string

const (
	RaceInfo    RaceRisk = "info"
	RaceWarning RaceRisk = "warning"
)

// PyRaceIndicator is one concurrency-pattern observation from the
// Python race detector (spec §4.2).
type PyRaceIndicator struct {
	Line            int      `json:"line"`
	ConcurrencyType string   `json:"concurrency_type"` // threading.Thread, asyncio.gather, multiprocessing.Pool, ...
	Pattern         string   `json:"pattern"`
	Risk            RaceRisk `json:"risk"`
	Message         string   `json:"message"`
}

// CSSRule is one CSS rule of interest to the layout-map query:
// a selector carrying a layout-relevant property (z-index, sticky
// position, grid/flex display).
type CSSRule struct {
	Selector string `json:"selector"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Line     int    `json:"line"`
}

// FileAnalysis is the per-file record produced by an extractor and
// mutated only by the scanner (it sets Language, and its resolution
// pass sets ResolvedPath on imports and re-exports); after that it
// is immutable for the lifetime of the snapshot that holds it.
type FileAnalysis struct {
	Path     string   `json:"path"` // repo-relative, forward-slash, canonical graph node ID
	LOC      int      `json:"loc"`
	Language Language `json:"language"`

	Kind         FileKind `json:"kind"`
	IsTest       bool     `json:"is_test,omitempty"`
	IsGenerated  bool     `json:"is_generated,omitempty"`

	Imports        []ImportEntry   `json:"imports,omitempty"`
	Reexports      []ReexportEntry `json:"reexports,omitempty"`
	DynamicImports []string        `json:"dynamic_imports,omitempty"`
	Exports        []ExportSymbol  `json:"exports,omitempty"`

	CommandCalls    []CommandRef `json:"command_calls,omitempty"`
	CommandHandlers []CommandRef `json:"command_handlers,omitempty"`

	EventConsts map[string]string `json:"event_consts,omitempty"` // const name -> literal value
	EventEmits  []EventSite       `json:"event_emits,omitempty"`
	EventListens []EventSite      `json:"event_listens,omitempty"`

	TauriRegisteredHandlers []string `json:"tauri_registered_handlers,omitempty"`

	LocalUses     []string `json:"local_uses,omitempty"`
	LocalSymbols  []string `json:"local_symbols,omitempty"`
	SymbolUsages  []string `json:"symbol_usages,omitempty"`
	SignatureUses []string `json:"signature_uses,omitempty"`

	EntryPoints        []string `json:"entry_points,omitempty"`
	HasWeakCollections bool     `json:"has_weak_collections,omitempty"`
	IsFlowFile         bool     `json:"is_flow_file,omitempty"`

	PyRaces []PyRaceIndicator `json:"py_races,omitempty"`
	CSSRules []CSSRule        `json:"css_rules,omitempty"`

	// NamespaceImports tracks `import * as ns from "spec"` bindings so
	// that command detection can tell `ns.commands.registerCommand(...)`
	// apart from a bare invoke() call (spec §9).
	NamespaceImports map[string]string `json:"namespace_imports,omitempty"`
}

// MaxLocalUses bounds the local-symbol usage table per file (spec
// §4.2: "capped at a fixed maximum (≈1,500 usage sites per file) to
// bound memory").
const MaxLocalUses = 1500

// HasLocalUse reports whether name appears anywhere in the file's own
// local-use evidence: local_uses, symbol_usages, or signature_uses.
// The dead-export finder and search's dead facet call this so an exported
// identifier referenced only within its own file is not flagged dead.
func (f *FileAnalysis) HasLocalUse(name string) bool {
	for _, u := range f.LocalUses {
		if u == name {
			return true
		}
	}
	for _, u := range f.SymbolUsages {
		if u == name {
			return true
		}
	}
	for _, u := range f.SignatureUses {
		if u == name {
			return true
		}
	}
	return false
}

// DefaultExport returns the file's default export, if any. Per spec
// §3, at most one default per file exists, under the synthetic name
// "default".
func (f *FileAnalysis) DefaultExport() *ExportSymbol {
	for i := range f.Exports {
		if f.Exports[i].Name == "default" {
			return &f.Exports[i]
		}
	}
	return nil
}

// IsAmbient reports whether this file is a declaration-only ambient
// file (.d.ts), which dead-export detection must exempt (spec §4.5).
func (f *FileAnalysis) IsAmbient() bool {
	return f.Kind == KindAmbient
}
