// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/loctreehq/loctree/pkg/model"
)

// RustExtractor parses use/pub use/mod declarations, pub items, Tauri
// command attributes, and event emit/listen sites. Grounded on the
// teacher's parser_go.go AST-walk/call-resolution structure (the
// "primary, 90%" parser), generalized from Go declarations to Rust
// ones, plus pkg/ingestion/resolver.go's qualified-call splitting for
// the `Foo::bar::baz()` path-qualified rescue (spec §4.2).
type RustExtractor struct{}

// NewRustExtractor builds the Rust extractor.
func NewRustExtractor() *RustExtractor { return &RustExtractor{} }

var (
	cfgTestModRe   = regexp.MustCompile(`(?s)#\[cfg\(test\)\]\s*mod\s+\w+\s*\{.*?\n\}`)
	tauriCommandRe = regexp.MustCompile(`#\[([\w:]*::)?command\]`)
	cratePrefixRe  = regexp.MustCompile(`^crate::`)
	superPrefixRe  = regexp.MustCompile(`^super::`)
	selfPrefixRe   = regexp.MustCompile(`^self::`)
	constStrRe     = regexp.MustCompile(`const\s+(\w+)\s*:\s*&(?:'static\s+)?str\s*=\s*"([^"]*)"`)
	formatMacroRe  = regexp.MustCompile(`format!\(\s*"([^"]*)"`)
	generateHandlerRe = regexp.MustCompile(`(?s)generate_handler!\s*\[(.*?)\]`)
	stdlibTypes    = map[string]bool{
		"Vec": true, "Option": true, "Result": true, "String": true,
		"HashMap": true, "Box": true, "Arc": true, "Rc": true,
	}
)

// stripTestModules removes `#[cfg(test)] mod { ... }` blocks so
// test-only imports never produce false cycles (spec §4.2).
func stripTestModules(src string) string {
	return cfgTestModRe.ReplaceAllString(src, "")
}

// Extract implements Extractor.
func (e *RustExtractor) Extract(relPath string, content []byte) model.FileAnalysis {
	fa := model.FileAnalysis{
		Path:     relPath,
		LOC:      countLines(content),
		Language: model.LangRust,
		Kind:     model.KindSource,
	}
	fa.IsTest = strings.Contains(relPath, "/tests/") || strings.HasSuffix(relPath, "_test.rs")
	fa.IsGenerated = looksGenerated(content)

	cleaned := stripTestModules(string(content))

	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(cleaned))
	if err != nil || tree == nil {
		return fa
	}
	defer tree.Close()

	consts := collectConsts(cleaned)
	fa.EventConsts = consts

	w := &rustWalk{fa: &fa, content: []byte(cleaned), consts: consts}
	w.walk(tree.RootNode())

	extractGenerateHandlers(cleaned, &fa)

	if len(fa.LocalUses) > model.MaxLocalUses {
		fa.LocalUses = fa.LocalUses[:model.MaxLocalUses]
	}
	fa.LocalUses = filterStdlibTypes(fa.LocalUses)

	return fa
}

func collectConsts(src string) map[string]string {
	out := map[string]string{}
	for _, m := range constStrRe.FindAllStringSubmatch(src, -1) {
		out[m[1]] = m[2]
	}
	return out
}

func filterStdlibTypes(uses []string) []string {
	out := uses[:0]
	for _, u := range uses {
		if !stdlibTypes[u] {
			out = append(out, u)
		}
	}
	return out
}

type rustWalk struct {
	fa      *model.FileAnalysis
	content []byte
	consts  map[string]string
}

func (w *rustWalk) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(w.content[n.StartByte():n.EndByte()])
}

func (w *rustWalk) line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

func (w *rustWalk) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "use_declaration":
		w.handleUse(n)
	case "mod_item":
		w.handleMod(n)
	case "attribute_item":
		w.handleAttribute(n)
	case "macro_invocation":
		w.handleMacro(n)
	case "call_expression":
		w.handleCall(n)
	case "identifier", "type_identifier", "field_identifier":
		if len(w.fa.LocalUses) < model.MaxLocalUses {
			w.fa.LocalUses = append(w.fa.LocalUses, w.text(n))
		}
	}

	if pubExport := classifyPubItem(n); pubExport != nil {
		pubExport.Line = w.line(n)
		pubExport.Name = w.text(n.ChildByFieldName("name"))
		w.fa.Exports = append(w.fa.Exports, *pubExport)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i))
	}
}

// classifyPubItem recognizes `pub fn`, `pub struct`, `pub enum`,
// `pub trait`, `pub type`, `pub union`, `pub const`, `pub static`.
func classifyPubItem(n *sitter.Node) *model.ExportSymbol {
	kindByType := map[string]string{
		"function_item":       "function",
		"struct_item":         "struct",
		"enum_item":           "enum",
		"trait_item":          "trait",
		"type_item":           "type",
		"union_item":          "union",
		"const_item":          "const",
		"static_item":         "static",
	}
	kind, ok := kindByType[n.Type()]
	if !ok {
		return nil
	}
	if n.ChildByFieldName("visibility_modifier") == nil && !hasPubModifier(n) {
		return nil
	}
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &model.ExportSymbol{Kind: kind}
}

func hasPubModifier(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "visibility_modifier" {
			return true
		}
	}
	return false
}

func (w *rustWalk) handleUse(n *sitter.Node) {
	raw := w.text(n)
	isPub := strings.HasPrefix(strings.TrimSpace(raw), "pub use") || hasPubModifier(n)

	argNode := n.ChildByFieldName("argument")
	if argNode == nil {
		return
	}
	spec := w.text(argNode)

	entry := model.ImportEntry{
		SourceRaw:         spec,
		Kind:              model.ImportStatic,
		Line:              w.line(n),
		IsCrateRelative:   cratePrefixRe.MatchString(spec),
		IsSuperRelative:   superPrefixRe.MatchString(spec),
		IsSelfRelative:    selfPrefixRe.MatchString(spec),
	}
	entry.Source = normalizeUsePath(spec)
	entry.IsBare = !entry.IsCrateRelative && !entry.IsSuperRelative && !entry.IsSelfRelative

	if isPub {
		star := strings.Contains(spec, "*")
		var named []model.NamedReexport
		if !star {
			named = parseUseGroup(spec)
		}
		kind := model.ReexportNamed
		if star {
			kind = model.ReexportStar
		}
		w.fa.Reexports = append(w.fa.Reexports, model.ReexportEntry{
			Source: entry.Source, Kind: kind, Named: named, Line: entry.Line,
		})
		return
	}

	w.fa.Imports = append(w.fa.Imports, entry)
}

// normalizeUsePath strips a trailing `{...}` group or `*` from a use
// path, leaving the module path prefix as Source.
func normalizeUsePath(spec string) string {
	if idx := strings.Index(spec, "::{"); idx >= 0 {
		return spec[:idx]
	}
	if idx := strings.Index(spec, "::*"); idx >= 0 {
		return spec[:idx]
	}
	return spec
}

var useGroupMemberRe = regexp.MustCompile(`(\w+)(?:\s+as\s+(\w+))?`)

func parseUseGroup(spec string) []model.NamedReexport {
	start := strings.Index(spec, "{")
	end := strings.LastIndex(spec, "}")
	if start < 0 || end < 0 || end <= start {
		// single-item `pub use foo::Bar;` — treat Bar itself as the member.
		parts := strings.Split(spec, "::")
		name := parts[len(parts)-1]
		return []model.NamedReexport{{Orig: name, Exported: name}}
	}
	body := spec[start+1 : end]
	var out []model.NamedReexport
	for _, part := range strings.Split(body, ",") {
		m := useGroupMemberRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		orig := m[1]
		exported := orig
		if m[2] != "" {
			exported = m[2]
		}
		out = append(out, model.NamedReexport{Orig: orig, Exported: exported})
	}
	return out
}

func (w *rustWalk) handleMod(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	// `mod foo;` (no body) is a synthetic import declaring a child
	// module (spec §4.2); `mod foo { ... }` is an inline module, not
	// an import.
	hasBody := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "declaration_list" {
			hasBody = true
		}
	}
	if hasBody {
		return
	}
	name := w.text(nameNode)
	w.fa.Imports = append(w.fa.Imports, model.ImportEntry{
		Source: "mod::" + name, SourceRaw: w.text(n), Kind: model.ImportStatic,
		IsModDeclaration: true, Line: w.line(n),
	})
}

func (w *rustWalk) handleAttribute(n *sitter.Node) {
	raw := w.text(n)
	if !tauriCommandRe.MatchString(raw) {
		return
	}
	// The attribute decorates the following function item; find it
	// among the parent's children.
	parent := n.Parent()
	if parent == nil {
		return
	}
	var fnNode *sitter.Node
	found := false
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if !found {
			if child == n {
				found = true
			}
			continue
		}
		if child.Type() == "function_item" {
			fnNode = child
			break
		}
		if child.Type() != "attribute_item" && child.Type() != "line_comment" {
			break
		}
	}
	if fnNode == nil {
		return
	}
	nameNode := fnNode.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	pluginName := ""
	if m := regexp.MustCompile(`root\s*=\s*"([^"]*)"`).FindStringSubmatch(raw); m != nil {
		pluginName = m[1]
	}
	w.fa.CommandHandlers = append(w.fa.CommandHandlers, model.CommandRef{
		Name: name, ExposedName: name, PluginName: pluginName, Line: w.line(fnNode),
	})
}

// handleMacro records event emit/listen sites matching `emit!`/`listen!`
// style macro calls (a custom project convention, distinct from
// Tauri's own emit/listen methods, which handleCall covers); loctree's
// normalized name list is seeded from const string evidence and
// format!() wildcard translation.
func (w *rustWalk) handleMacro(n *sitter.Node) {
	macroNode := n.ChildByFieldName("macro")
	if macroNode == nil {
		return
	}
	name := w.text(macroNode)
	raw := w.text(n)

	var site *model.EventSite
	switch {
	case strings.Contains(name, "emit"):
		site = &model.EventSite{Line: w.line(n)}
	case strings.Contains(name, "listen"):
		site = &model.EventSite{Line: w.line(n)}
	default:
		return
	}

	if m := formatMacroRe.FindStringSubmatch(raw); m != nil {
		site.Name = strings.ReplaceAll(m[1], "{}", "*")
		site.IsDynamic = true
	} else if m := regexp.MustCompile(`"([^"]+)"`).FindStringSubmatch(raw); m != nil {
		eventName := m[1]
		if resolved, ok := w.consts[eventName]; ok {
			eventName = resolved
		}
		if !isPlausibleEventName(eventName) {
			return
		}
		site.Name = eventName
	} else {
		return
	}

	if strings.Contains(name, "emit") {
		w.fa.EventEmits = append(w.fa.EventEmits, *site)
	} else {
		w.fa.EventListens = append(w.fa.EventListens, *site)
	}
}

// rustEventEmitMethods and rustEventListenMethods name the real Tauri
// event API method calls (app_handle.emit(...), window.emit_all(...),
// app.listen(...)) that handleCall recognizes, alongside the
// emit!/listen! macro convention handleMacro covers.
var (
	rustEventEmitMethods   = map[string]bool{"emit": true, "emit_all": true, "emit_to": true}
	rustEventListenMethods = map[string]bool{"listen": true, "listen_any": true, "once": true}
)

// handleCall records event emit/listen sites from Tauri's actual
// method-call API, which the macro-only handleMacro never sees: these
// are call_expression nodes whose function is a field_expression
// (`app_handle.emit(...)`), not macro_invocation nodes.
func (w *rustWalk) handleCall(n *sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil || fnNode.Type() != "field_expression" {
		return
	}
	fieldNode := fnNode.ChildByFieldName("field")
	if fieldNode == nil {
		return
	}
	method := w.text(fieldNode)

	isEmit := rustEventEmitMethods[method]
	isListen := rustEventListenMethods[method]
	if !isEmit && !isListen {
		return
	}

	argsNode := n.ChildByFieldName("arguments")
	if argsNode == nil || argsNode.NamedChildCount() == 0 {
		return
	}
	nameArg := argsNode.NamedChild(0)

	site := &model.EventSite{Line: w.line(n)}
	switch nameArg.Type() {
	case "string_literal":
		eventName := strings.Trim(w.text(nameArg), `"`)
		if resolved, ok := w.consts[eventName]; ok {
			eventName = resolved
		}
		if !isPlausibleEventName(eventName) {
			return
		}
		site.Name = eventName
	case "macro_invocation":
		raw := w.text(nameArg)
		m := formatMacroRe.FindStringSubmatch(raw)
		if m == nil {
			return
		}
		site.Name = strings.ReplaceAll(m[1], "{}", "*")
		site.IsDynamic = true
	case "identifier":
		resolved, ok := w.consts[w.text(nameArg)]
		if !ok || !isPlausibleEventName(resolved) {
			return
		}
		site.Name = resolved
	default:
		return
	}

	if isEmit {
		w.fa.EventEmits = append(w.fa.EventEmits, *site)
	} else {
		w.fa.EventListens = append(w.fa.EventListens, *site)
	}
}

// isPlausibleEventName applies the disciplined identifier filter
// spec §4.2 calls for: reject bare keywords, module paths, short
// lowercase identifiers, and unseparated PascalCase.
func isPlausibleEventName(name string) bool {
	if name == "" || strings.Contains(name, "::") {
		return false
	}
	if len(name) < 4 && !strings.ContainsAny(name, ":_-.") {
		return false
	}
	if regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`).MatchString(name) {
		return false
	}
	return true
}

// extractGenerateHandlers parses `tauri::generate_handler![…]`: the
// regex only locates the opening bracket, and the body runs to the
// matching closing bracket (nested brackets such as cfg guards are
// balanced), then cfg guards and qualifier paths are stripped to
// recover identifiers.
func extractGenerateHandlers(src string, fa *model.FileAnalysis) {
	loc := generateHandlerRe.FindStringSubmatchIndex(src)
	if loc == nil {
		return
	}
	start, end, depth := loc[2], len(src), 1
	for i := start; i < len(src); i++ {
		if src[i] == '[' {
			depth++
		} else if src[i] == ']' {
			depth--
			if depth == 0 {
				end = i
				break
			}
		}
	}
	body := src[start:end]
	body = regexp.MustCompile(`#\[cfg\([^)]*\)\]`).ReplaceAllString(body, "")
	for _, tok := range strings.Split(body, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if idx := strings.LastIndex(tok, "::"); idx >= 0 {
			tok = tok[idx+2:]
		}
		fa.TauriRegisteredHandlers = append(fa.TauriRegisteredHandlers, tok)
	}
}
