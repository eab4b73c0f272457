// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package extract turns one file's bytes into a model.FileAnalysis.
// Each language extractor shares the uniform contract spec §4.2
// describes: take content plus (path, root), return a FileAnalysis
// whose Path is root-relative. Grounded on the teacher's
// pkg/ingestion parser family (parser_typescript.go, parser_go.go,
// parser_python_test.go, parser_protobuf.go) — one parser type per
// language, dispatched by extension/content sniffing.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

// Extractor analyzes one file's content and produces a FileAnalysis.
// relPath is already root-relative and forward-slash normalized.
type Extractor interface {
	// Extract parses content and returns the file's FileAnalysis.
	// It must never return an error for a parse failure (spec §7,
	// ParseError is never fatal) — partial results are returned
	// instead, with whatever was recovered up to the failure point.
	Extract(relPath string, content []byte) model.FileAnalysis
}

// languageOf classifies a file by extension, mirroring the teacher's
// detectLanguageFromPath but against this spec's language set (§3).
func languageOf(relPath string) model.Language {
	ext := strings.ToLower(filepath.Ext(relPath))
	switch ext {
	case ".ts":
		return model.LangTS
	case ".tsx":
		return model.LangTSX
	case ".js":
		return model.LangJS
	case ".jsx":
		return model.LangJSX
	case ".mjs":
		return model.LangMJS
	case ".cjs":
		return model.LangCJS
	case ".rs":
		return model.LangRust
	case ".css":
		return model.LangCSS
	case ".py":
		return model.LangPython
	case ".vue":
		return model.LangVue
	case ".svelte":
		return model.LangSvelte
	default:
		return model.LangUnknown
	}
}

// DefaultExtensions is the scanner's default extension allowlist
// (spec §4.1).
var DefaultExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".rs", ".css", ".py", ".vue", ".svelte",
}

// ForLanguage returns the Extractor appropriate for lang, or nil for
// a language the scanner should skip (e.g. LangUnknown). cfg may be
// nil, in which case every extractor falls back to its built-in
// defaults (spec §6).
func ForLanguage(lang model.Language, cfg *config.Config, pyRaces bool) Extractor {
	var commandFns, excludeNS []string
	if cfg != nil {
		commandFns, excludeNS = cfg.CommandFunctions, cfg.ExcludeNamespaces
	}
	switch lang {
	case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX, model.LangMJS, model.LangCJS,
		model.LangVue, model.LangSvelte:
		return NewJSTSExtractor(lang, commandFns, excludeNS)
	case model.LangRust:
		return NewRustExtractor()
	case model.LangPython:
		return NewPythonExtractor(pyRaces)
	case model.LangCSS:
		return NewCSSExtractor()
	default:
		return nil
	}
}

// ForPath is a convenience wrapper combining languageOf and
// ForLanguage, used by the scanner's per-file dispatch.
func ForPath(relPath string, cfg *config.Config, pyRaces bool) (model.Language, Extractor) {
	lang := languageOf(relPath)
	return lang, ForLanguage(lang, cfg, pyRaces)
}

// countLines returns the number of lines in content, counting a
// trailing partial line as one more line (matches `wc -l`-adjacent
// conventions used across the teacher's LOC counters).
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 0
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
