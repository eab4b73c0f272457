// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/loctreehq/loctree/pkg/model"
)

// JSTSExtractor parses JS/TS/JSX/TSX and the <script> slice of
// Svelte/Vue single-file components. Grounded on the teacher's
// TreeSitterParser.walkTSFunctions/extractTSTypes AST-walk shape
// (parser_typescript.go), generalized from function/type extraction
// to the import/export/command/event surface spec §4.2 describes.
type JSTSExtractor struct {
	lang              model.Language
	commandFunctions  map[string]bool
	excludeNamespaces map[string]bool
}

// NewJSTSExtractor builds an extractor for one of the JS/TS family
// languages, including Vue and Svelte (whose <script> contents are
// parsed as TSX per spec §4.2). commandFunctions/excludeNamespaces
// come from config.Config (spec §6); nil falls back to the built-in
// invoke/safeInvoke + vscode defaults.
func NewJSTSExtractor(lang model.Language, commandFunctions, excludeNamespaces []string) *JSTSExtractor {
	cf := map[string]bool{"invoke": true, "safeInvoke": true}
	if commandFunctions != nil {
		cf = toSet(commandFunctions)
	}
	ns := map[string]bool{"vscode": true}
	if excludeNamespaces != nil {
		ns = toSet(excludeNamespaces)
	}
	return &JSTSExtractor{lang: lang, commandFunctions: cf, excludeNamespaces: ns}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, i := range items {
		out[i] = true
	}
	return out
}

// grammarFor picks the tree-sitter grammar for a language, per spec
// §4.2: ".tsx"/".jsx" enable JSX; plain ".ts" must parse without JSX
// since TS generics conflict with JSX syntax there.
func grammarFor(lang model.Language) *sitter.Language {
	switch lang {
	case model.LangTS:
		return typescript.GetLanguage()
	case model.LangTSX, model.LangVue, model.LangSvelte:
		return tsx.GetLanguage()
	default: // JS, JSX, MJS, CJS all accept JSX-flavored grammar
		return javascript.GetLanguage()
	}
}

var (
	scriptTagRe   = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	templateTagRe = regexp.MustCompile(`(?is)<template[^>]*>(.*?)</template>`)
	identifierRe  = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)
	flowPragmaRe  = regexp.MustCompile(`^\s*(//|/\*)\s*@flow`)
)

// Extract implements Extractor.
func (e *JSTSExtractor) Extract(relPath string, content []byte) model.FileAnalysis {
	fa := model.FileAnalysis{
		Path:     relPath,
		LOC:      countLines(content),
		Language: e.lang,
		Kind:     model.KindSource,
	}
	fa.IsTest = looksLikeTestFile(relPath)
	fa.IsGenerated = looksGenerated(content)
	if strings.HasSuffix(relPath, ".d.ts") {
		fa.Kind = model.KindAmbient
	}

	script := content
	var templateText string
	if e.lang == model.LangVue || e.lang == model.LangSvelte {
		if m := scriptTagRe.FindSubmatch(content); m != nil {
			script = m[1]
		} else {
			// No <script> tag: spec §8 boundary behavior — empty but valid.
			return fa
		}
		if m := templateTagRe.FindSubmatch(content); m != nil {
			templateText = string(m[1])
		}
	}

	if flowPragmaRe.Match(firstLines(script, 3)) {
		fa.IsFlowFile = true
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammarFor(e.lang))
	tree, err := parser.ParseCtx(context.Background(), nil, script)
	if err != nil || tree == nil {
		// ParseError per spec §7: never fatal, return what we have.
		return fa
	}
	defer tree.Close()

	w := &jstsWalk{
		fa: &fa, content: script, namespaceImports: map[string]string{},
		commandFunctions: e.commandFunctions, excludeNamespaces: e.excludeNamespaces,
	}
	w.fa.NamespaceImports = w.namespaceImports
	w.walk(tree.RootNode())
	w.collectLocalUses(tree.RootNode())

	if templateText != "" {
		for _, name := range identifierRe.FindAllString(templateText, -1) {
			fa.LocalUses = append(fa.LocalUses, name)
		}
	}

	if len(fa.LocalUses) > model.MaxLocalUses {
		fa.LocalUses = fa.LocalUses[:model.MaxLocalUses]
	}

	return fa
}

type jstsWalk struct {
	fa                *model.FileAnalysis
	content           []byte
	namespaceImports  map[string]string
	commandFunctions  map[string]bool
	excludeNamespaces map[string]bool
}

// commandDecoratorNames recognizes the handful of RPC-endpoint
// decorator spellings seen across the pack's frontend-framework
// examples; a user-configured macro list extends this at the config
// layer (spec §4.2's "command_handlers" come from decorators or
// wrapper calls, not only Rust attribute macros).
var commandDecoratorNames = map[string]bool{
	"Command": true, "RpcHandler": true, "Handler": true, "TauriCommand": true,
}

func (w *jstsWalk) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(w.content[n.StartByte():n.EndByte()])
}

func (w *jstsWalk) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func (w *jstsWalk) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "import_statement":
		w.handleImport(n)
	case "export_statement":
		w.handleExport(n)
	case "call_expression":
		w.handleCall(n)
	case "new_expression":
		w.handleNewExpression(n)
	case "method_definition", "function_declaration":
		w.handleDecoratedMethod(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i))
	}
}

// handleDecoratedMethod records a CommandHandler when a method or
// function declaration is preceded by a recognized RPC decorator
// (`@Command()`, `@Handler("name")`, ...), generalizing the Rust
// extractor's `#[tauri::command]` handling to the decorator-based
// frameworks in the JS/TS family (spec §4.2).
func (w *jstsWalk) handleDecoratedMethod(n *sitter.Node) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	var decorator *sitter.Node
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child == n {
			break
		}
		if child.Type() == "decorator" {
			decorator = child
		} else if decorator != nil {
			decorator = nil
		}
	}
	if decorator == nil {
		return
	}

	callee := decorator
	for i := 0; i < int(decorator.ChildCount()); i++ {
		c := decorator.Child(i)
		if c.Type() == "call_expression" || c.Type() == "identifier" {
			callee = c
		}
	}
	name, _ := w.splitCallee(calleeOf(callee))
	if !commandDecoratorNames[name] {
		return
	}

	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	exposed := w.text(nameNode)
	if args := calleeArgs(callee); args != nil && args.NamedChildCount() > 0 {
		if first := args.NamedChild(0); first.Type() == "string" {
			exposed = strings.Trim(w.text(first), `"'`)
		}
	}
	w.fa.CommandHandlers = append(w.fa.CommandHandlers, model.CommandRef{
		Name: w.text(nameNode), ExposedName: exposed, Line: w.line(n),
	})
}

// calleeOf returns the callee node of a call_expression, or n itself
// for a bare `@Command` decorator with no arguments.
func calleeOf(n *sitter.Node) *sitter.Node {
	if n.Type() == "call_expression" {
		if fn := n.ChildByFieldName("function"); fn != nil {
			return fn
		}
	}
	return n
}

func calleeArgs(n *sitter.Node) *sitter.Node {
	if n.Type() == "call_expression" {
		return n.ChildByFieldName("arguments")
	}
	return nil
}

func (w *jstsWalk) handleNewExpression(n *sitter.Node) {
	ctor := n.ChildByFieldName("constructor")
	if ctor == nil {
		return
	}
	name := w.text(ctor)
	if name == "WeakMap" || name == "WeakSet" {
		w.fa.HasWeakCollections = true
	}
}

// handleImport covers default, named, namespace, and side-effect-only
// import forms (spec §4.2).
func (w *jstsWalk) handleImport(n *sitter.Node) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	source := strings.Trim(w.text(sourceNode), `"'`)

	entry := model.ImportEntry{
		Source:    source,
		SourceRaw: w.text(sourceNode),
		Kind:      model.ImportSideEffect,
		Line:      w.line(n),
		IsBare:    !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/"),
	}

	clause := n.ChildByFieldName("import_clause")
	// smacker's JS grammar nests default/named/namespace specifiers as
	// direct children rather than a single named field; walk them.
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "import_clause":
			clause = child
		}
	}

	if clause != nil {
		entry.Kind = model.ImportStatic
		w.collectImportClause(clause, &entry)
	}

	w.fa.Imports = append(w.fa.Imports, entry)
}

func (w *jstsWalk) collectImportClause(clause *sitter.Node, entry *model.ImportEntry) {
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "identifier":
			// default import
			entry.Symbols = append(entry.Symbols, "default")
		case "namespace_import":
			alias := strings.TrimPrefix(w.text(child), "*")
			alias = strings.TrimSpace(strings.TrimPrefix(alias, "as"))
			entry.Symbols = append(entry.Symbols, "*")
			if alias != "" {
				w.namespaceImports[alias] = entry.Source
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode != nil {
					entry.Symbols = append(entry.Symbols, w.text(nameNode))
				}
			}
		}
	}
}

// handleExport covers named, default, and re-export forms, plus the
// dynamic-import case is handled separately in handleCall.
func (w *jstsWalk) handleExport(n *sitter.Node) {
	raw := w.text(n)
	sourceNode := n.ChildByFieldName("source")

	if sourceNode != nil {
		source := strings.Trim(w.text(sourceNode), `"'`)
		if strings.Contains(raw, "*") && !strings.Contains(raw, "{") {
			// export * from "./x" or export * as ns from "./x"
			w.fa.Reexports = append(w.fa.Reexports, model.ReexportEntry{
				Source: source, Kind: model.ReexportStar, Line: w.line(n),
			})
			return
		}
		var named []model.NamedReexport
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() != "export_clause" {
				continue
			}
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				orig := w.text(nameNode)
				exported := orig
				if aliasNode != nil {
					exported = w.text(aliasNode)
				}
				if orig != "" {
					named = append(named, model.NamedReexport{Orig: orig, Exported: exported})
				}
			}
		}
		w.fa.Reexports = append(w.fa.Reexports, model.ReexportEntry{
			Source: source, Kind: model.ReexportNamed, Named: named, Line: w.line(n),
		})
		return
	}

	if strings.HasPrefix(strings.TrimSpace(raw), "export default") {
		w.handleDefaultExport(n)
		return
	}

	w.handleNamedExport(n)
}

func (w *jstsWalk) handleDefaultExport(n *sitter.Node) {
	line := w.line(n)
	exportType := ""
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "function_declaration", "class_declaration", "generator_function_declaration":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				exportType = w.text(nameNode)
			}
		case "identifier":
			exportType = w.text(child)
		}
	}
	w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
		Name: "default", Kind: "default", ExportType: exportType, Line: line,
	})
}

func (w *jstsWalk) handleNamedExport(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "function_declaration", "generator_function_declaration":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
					Name: w.text(nameNode), Kind: "function", Line: w.line(child), Params: w.params(child),
				})
			}
		case "class_declaration":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
					Name: w.text(nameNode), Kind: "class", Line: w.line(child),
				})
			}
		case "interface_declaration":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
					Name: w.text(nameNode), Kind: "interface", Line: w.line(child),
				})
			}
		case "type_alias_declaration":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
					Name: w.text(nameNode), Kind: "type", Line: w.line(child),
				})
			}
		case "lexical_declaration", "variable_declaration":
			for j := 0; j < int(child.ChildCount()); j++ {
				decl := child.Child(j)
				if decl.Type() != "variable_declarator" {
					continue
				}
				nameNode := decl.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				w.maybeRecordConstEvent(nameNode, decl)
				w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
					Name: w.text(nameNode), Kind: "const", Line: w.line(decl),
				})
			}
		case "export_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				name := w.text(nameNode)
				exportType := name
				if aliasNode != nil {
					name = w.text(aliasNode)
				}
				if name == "" {
					continue
				}
				w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
					Name: name, Kind: "named", ExportType: exportType, Line: w.line(spec),
				})
			}
		}
	}
}

// maybeRecordConstEvent captures `const NAME = "literal"` bindings
// into EventConsts so event coverage can resolve identifier-form
// event names (spec §4.6).
func (w *jstsWalk) maybeRecordConstEvent(nameNode, decl *sitter.Node) {
	valueNode := decl.ChildByFieldName("value")
	if valueNode == nil || valueNode.Type() != "string" {
		return
	}
	if w.fa.EventConsts == nil {
		w.fa.EventConsts = map[string]string{}
	}
	w.fa.EventConsts[w.text(nameNode)] = strings.Trim(w.text(valueNode), `"'`)
}

func (w *jstsWalk) params(fn *sitter.Node) []string {
	paramsNode := fn.ChildByFieldName("parameters")
	if paramsNode == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		p := paramsNode.Child(i)
		switch p.Type() {
		case "identifier", "required_parameter", "optional_parameter":
			out = append(out, w.text(p))
		}
	}
	return out
}

// handleCall covers import(), invoke()/safeInvoke() command calls,
// and vscode.commands.registerCommand-style exclusions.
func (w *jstsWalk) handleCall(n *sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return
	}

	if fnNode.Type() == "import" {
		w.handleDynamicImport(n)
		return
	}

	name, namespace := w.splitCallee(fnNode)

	if namespace != "" {
		if imported, isNamespaceImport := w.namespaceImports[namespace]; isNamespaceImport {
			if w.excludeNamespaces[namespace] || w.excludeNamespaces[imported] {
				// e.g. vscode.commands.registerCommand("x", ...) —
				// excluded from command detection per spec §9.
				return
			}
		}
	}

	if w.commandFunctions[name] {
		args := n.ChildByFieldName("arguments")
		if args != nil && args.NamedChildCount() > 0 {
			first := args.NamedChild(0)
			if first.Type() == "string" {
				w.fa.CommandCalls = append(w.fa.CommandCalls, model.CommandRef{
					Name: strings.Trim(w.text(first), `"'`),
					Line: w.line(n),
				})
			}
		}
	}
}

// splitCallee splits `ns.member(...)` into (member, ns); a bare call
// `f(...)` returns (f, "").
func (w *jstsWalk) splitCallee(fnNode *sitter.Node) (name, namespace string) {
	if fnNode.Type() == "member_expression" {
		obj := fnNode.ChildByFieldName("object")
		prop := fnNode.ChildByFieldName("property")
		if obj != nil && obj.Type() == "identifier" {
			namespace = w.text(obj)
		}
		if prop != nil {
			name = w.text(prop)
		}
		return
	}
	return w.text(fnNode), ""
}

func (w *jstsWalk) handleDynamicImport(call *sitter.Node) {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	arg := args.NamedChild(0)
	if arg.Type() == "string" {
		w.fa.DynamicImports = append(w.fa.DynamicImports, strings.Trim(w.text(arg), `"'`))
	} else {
		w.fa.DynamicImports = append(w.fa.DynamicImports, "*")
	}
}

// collectLocalUses fills LocalUses with every identifier
// referenced in the file, bounded to MaxLocalUses, so that an export
// used only within its own file is not flagged dead (spec §4.2/§4.5).
func (w *jstsWalk) collectLocalUses(n *sitter.Node) {
	if n == nil {
		return
	}
	if n.Type() == "identifier" || n.Type() == "shorthand_property_identifier" ||
		n.Type() == "shorthand_property_identifier_pattern" || n.Type() == "property_identifier" {
		if len(w.fa.LocalUses) < model.MaxLocalUses {
			w.fa.LocalUses = append(w.fa.LocalUses, w.text(n))
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.collectLocalUses(n.Child(i))
	}
}

func looksLikeTestFile(relPath string) bool {
	return strings.Contains(relPath, ".test.") || strings.Contains(relPath, ".spec.") ||
		strings.Contains(relPath, "/test/") || strings.Contains(relPath, "/__tests__/")
}

func looksGenerated(content []byte) bool {
	head := firstLines(content, 5)
	return strings.Contains(string(head), "DO NOT EDIT") || strings.Contains(string(head), "@generated") ||
		strings.Contains(string(head), "Code generated")
}

func firstLines(content []byte, n int) []byte {
	count := 0
	for i, b := range content {
		if b == '\n' {
			count++
			if count >= n {
				return content[:i]
			}
		}
	}
	return content
}
