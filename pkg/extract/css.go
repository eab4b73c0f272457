// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"regexp"
	"strings"

	"github.com/loctreehq/loctree/pkg/model"
)

// CSSExtractor follows @import statements and records textual
// selectors carrying a layout-relevant property (spec §4.2). Uses
// regex/brace-tracking rather than tree-sitter, mirroring the
// teacher's parseProtobufContent — a line-scan sibling parser for a
// grammar not worth pulling in a tree-sitter binding for.
type CSSExtractor struct{}

// NewCSSExtractor builds the CSS extractor.
func NewCSSExtractor() *CSSExtractor { return &CSSExtractor{} }

var (
	cssImportRe   = regexp.MustCompile(`@import\s+(?:url\()?["']?([^"')\s;]+)["']?\)?`)
	cssSelectorRe = regexp.MustCompile(`^([^{}]+)\{\s*$`)
	cssLayoutProps = map[string]*regexp.Regexp{
		"z-index":  regexp.MustCompile(`z-index\s*:\s*([^;]+);?`),
		"position": regexp.MustCompile(`position\s*:\s*(sticky|fixed)\b`),
		"display":  regexp.MustCompile(`display\s*:\s*(grid|flex|inline-grid|inline-flex)\b`),
	}
)

func (e *CSSExtractor) Extract(relPath string, content []byte) model.FileAnalysis {
	fa := model.FileAnalysis{
		Path:     relPath,
		LOC:      countLines(content),
		Language: model.LangCSS,
		Kind:     model.KindSource,
	}
	fa.IsGenerated = looksGenerated(content)

	lines := strings.Split(string(content), "\n")
	var currentSelector string
	braceDepth := 0

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "//") {
			continue
		}

		if m := cssImportRe.FindStringSubmatch(line); m != nil {
			fa.Imports = append(fa.Imports, model.ImportEntry{
				Source: m[1], SourceRaw: line, Kind: model.ImportStatic, Line: lineNo,
			})
			continue
		}

		if braceDepth == 0 {
			if m := cssSelectorRe.FindStringSubmatch(line); m != nil {
				currentSelector = strings.TrimSpace(m[1])
				braceDepth++
				continue
			}
		}

		if braceDepth > 0 {
			braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
			for prop, re := range cssLayoutProps {
				if m := re.FindStringSubmatch(line); m != nil {
					fa.CSSRules = append(fa.CSSRules, model.CSSRule{
						Selector: currentSelector, Property: prop,
						Value: strings.TrimSpace(m[1]), Line: lineNo,
					})
				}
			}
			if braceDepth <= 0 {
				braceDepth = 0
				currentSelector = ""
			}
		}
	}

	return fa
}
