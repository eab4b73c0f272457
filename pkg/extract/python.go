// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/loctreehq/loctree/pkg/model"
)

// PythonExtractor reads imports, top-level exports, and — when races
// is enabled — runs the concurrency-pattern detector (spec §4.2).
// Grounded on the teacher's parser_python_test.go fixture set, which
// fixes this extractor's tolerance contract: empty files produce zero
// functions/types, syntax errors still yield partial results, never an
// error.
type PythonExtractor struct {
	races bool
}

// NewPythonExtractor builds the Python extractor. races enables the
// --py-races concurrency detector.
func NewPythonExtractor(races bool) *PythonExtractor {
	return &PythonExtractor{races: races}
}

func (e *PythonExtractor) Extract(relPath string, content []byte) model.FileAnalysis {
	fa := model.FileAnalysis{
		Path:     relPath,
		LOC:      countLines(content),
		Language: model.LangPython,
		Kind:     model.KindSource,
	}
	fa.IsTest = strings.Contains(relPath, "/test") || strings.HasPrefix(relPath, "test_") ||
		strings.Contains(relPath, "/test_") || strings.HasSuffix(relPath, "_test.py")
	fa.IsGenerated = looksGenerated(content)

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return fa
	}
	defer tree.Close()

	w := &pyWalk{fa: &fa, content: content}
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		w.walkTopLevel(root.Child(i))
	}
	// full-body sweep for race-pattern evidence and local-use names,
	// separate from the top-level import/export pass.
	w.walkAll(root)

	if e.races {
		fa.PyRaces = detectPyRaces(string(content))
	}

	if len(fa.LocalUses) > model.MaxLocalUses {
		fa.LocalUses = fa.LocalUses[:model.MaxLocalUses]
	}

	return fa
}

type pyWalk struct {
	fa      *model.FileAnalysis
	content []byte
}

func (w *pyWalk) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(w.content[n.StartByte():n.EndByte()])
}

func (w *pyWalk) line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

// walkTopLevel only looks at the module's direct children: imports and
// exports are a top-level concept in Python (spec §4.2: "module-level
// assignments" and "top-level def/class").
func (w *pyWalk) walkTopLevel(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_statement":
		w.handleImport(n)
	case "import_from_statement":
		w.handleImportFrom(n)
	case "function_definition":
		w.handleExportDef(n, "function")
	case "class_definition":
		w.handleExportDef(n, "class")
	case "expression_statement":
		w.handleAssignmentExport(n)
	case "decorated_definition":
		w.handleDecorated(n)
	}
}

func (w *pyWalk) handleDecorated(n *sitter.Node) {
	def := n.ChildByFieldName("definition")
	if def == nil {
		return
	}
	switch def.Type() {
	case "function_definition":
		w.handleExportDef(def, "function")
	case "class_definition":
		w.handleExportDef(def, "class")
	}
}

func (w *pyWalk) handleImport(n *sitter.Node) {
	// `import a.b, c.d as e`
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			w.fa.Imports = append(w.fa.Imports, model.ImportEntry{
				Source: w.text(child), SourceRaw: w.text(n),
				Kind: model.ImportStatic, Line: w.line(n),
			})
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				w.fa.Imports = append(w.fa.Imports, model.ImportEntry{
					Source: w.text(nameNode), SourceRaw: w.text(n),
					Kind: model.ImportStatic, Line: w.line(n),
				})
			}
		}
	}
}

func (w *pyWalk) handleImportFrom(n *sitter.Node) {
	raw := w.text(n)
	moduleNode := n.ChildByFieldName("module_name")

	dots := 0
	prefixParents := []*sitter.Node{n}
	if moduleNode != nil && moduleNode.Type() == "relative_import" {
		prefixParents = append(prefixParents, moduleNode)
	}
	for _, p := range prefixParents {
		for i := 0; i < int(p.ChildCount()); i++ {
			if p.Child(i).Type() == "import_prefix" {
				dots = strings.Count(w.text(p.Child(i)), ".")
			}
		}
	}
	isRelative := dots > 0

	source := ""
	if moduleNode != nil {
		source = w.text(moduleNode)
	}

	var symbols []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "wildcard_import":
			symbols = append(symbols, "*")
		case "dotted_name":
			if child != moduleNode {
				symbols = append(symbols, w.text(child))
			}
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				symbols = append(symbols, w.text(nameNode))
			}
		}
	}

	w.fa.Imports = append(w.fa.Imports, model.ImportEntry{
		Source: source, SourceRaw: raw, Kind: model.ImportStatic,
		IsCrateRelative: false, Symbols: symbols, Line: w.line(n),
		IsSelfRelative: isRelative && dots == 1,
		IsSuperRelative: isRelative && dots > 1,
	})
}

func (w *pyWalk) handleExportDef(n *sitter.Node, kind string) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	if strings.HasPrefix(name, "_") {
		return
	}
	sym := model.ExportSymbol{Name: name, Kind: kind, Line: w.line(n)}
	if kind == "function" {
		if params := n.ChildByFieldName("parameters"); params != nil {
			sym.Params = pyParamNames(params, w)
		}
	}
	w.fa.Exports = append(w.fa.Exports, sym)
}

func pyParamNames(params *sitter.Node, w *pyWalk) []string {
	var out []string
	for i := 0; i < int(params.ChildCount()); i++ {
		p := params.Child(i)
		switch p.Type() {
		case "identifier":
			out = append(out, w.text(p))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if nameNode := p.Child(0); nameNode != nil {
				out = append(out, w.text(nameNode))
			}
		}
	}
	return out
}

// handleAssignmentExport catches module-level `NAME = ...` (spec
// §4.2's "module-level assignments whose name does not start with
// _"). Tuple/multi-target assignment is intentionally skipped — this
// targets the common single-name constant/config pattern.
func (w *pyWalk) handleAssignmentExport(n *sitter.Node) {
	var assign *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "assignment" {
			assign = n.Child(i)
			break
		}
	}
	if assign == nil {
		return
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := w.text(left)
	if strings.HasPrefix(name, "_") {
		return
	}
	w.fa.Exports = append(w.fa.Exports, model.ExportSymbol{
		Name: name, Kind: "const", Line: w.line(n),
	})
}

// walkAll recurses through the entire tree collecting identifier uses,
// bounded by model.MaxLocalUses.
func (w *pyWalk) walkAll(n *sitter.Node) {
	if n == nil || len(w.fa.LocalUses) >= model.MaxLocalUses {
		return
	}
	if n.Type() == "identifier" {
		w.fa.LocalUses = append(w.fa.LocalUses, w.text(n))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walkAll(n.Child(i))
	}
}

var (
	threadingThreadRe  = regexp.MustCompile(`threading\.Thread\b`)
	asyncioGatherRe    = regexp.MustCompile(`asyncio\.(gather|create_task|wait)\b`)
	multiprocessingRe  = regexp.MustCompile(`multiprocessing\.(Pool|Process)\b`)
	processPoolRe      = regexp.MustCompile(`ProcessPoolExecutor\b`)
	threadPoolRe       = regexp.MustCompile(`ThreadPoolExecutor\b`)
	safeContainerRe    = regexp.MustCompile(`queue\.Queue\b|collections\.deque\b|multiprocessing\.Queue\b`)
	lockRe             = regexp.MustCompile(`\b(Lock|RLock|Semaphore)\s*\(`)
)

// detectPyRaces scans for concurrency-construct evidence line by line,
// downgrading to info when thread-safe containers or locks appear
// anywhere in the file (spec §4.2).
func detectPyRaces(src string) []model.PyRaceIndicator {
	hasGuard := safeContainerRe.MatchString(src) || lockRe.MatchString(src)

	var out []model.PyRaceIndicator
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lineNo := i + 1
		switch {
		case threadingThreadRe.MatchString(line):
			out = append(out, pyRaceIndicator(lineNo, "threading.Thread", line, hasGuard,
				"spawns a raw thread; shared mutable state is unguarded unless a lock is present"))
		case asyncioGatherRe.MatchString(line):
			out = append(out, pyRaceIndicator(lineNo, "asyncio", line, hasGuard,
				"concurrent coroutines scheduled together; check for shared mutable state"))
		case multiprocessingRe.MatchString(line):
			out = append(out, pyRaceIndicator(lineNo, "multiprocessing", line, hasGuard,
				"separate process pool; shared state must cross a process boundary explicitly"))
		case processPoolRe.MatchString(line):
			out = append(out, pyRaceIndicator(lineNo, "concurrent.futures.ProcessPoolExecutor", line, hasGuard,
				"separate process pool; shared state must cross a process boundary explicitly"))
		case threadPoolRe.MatchString(line):
			out = append(out, pyRaceIndicator(lineNo, "concurrent.futures.ThreadPoolExecutor", line, hasGuard,
				"thread pool; shared mutable state is unguarded unless a lock is present"))
		}
	}
	return out
}

func pyRaceIndicator(line int, concurrencyType, pattern string, guarded bool, message string) model.PyRaceIndicator {
	risk := model.RaceWarning
	if guarded {
		risk = model.RaceInfo
		message = "guarded: " + message
	}
	return model.PyRaceIndicator{
		Line: line, ConcurrencyType: concurrencyType,
		Pattern: strings.TrimSpace(pattern), Risk: risk, Message: message,
	}
}
