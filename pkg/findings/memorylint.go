// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package findings

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/loctreehq/loctree/pkg/model"
)

// memoryLintMaxModuleIndent bounds how far a declaration can be
// indented and still be treated as module-level rather than nested
// inside a function or class.
const memoryLintMaxModuleIndent = 4

// Context windows (in lines) scanned after a leak-shaped call for its
// matching cleanup call.
const (
	subscriptionContextWindow  = 50
	intervalContextWindow      = 30
	eventListenerContextWindow = 30
)

const (
	lintRuleModuleCache      = "mem/module-cache-unbounded"
	lintRuleSubscriptionLeak = "mem/subscription-leak"
	lintRuleGlobalInterval   = "mem/global-interval"
	lintRuleGlobalListener   = "mem/global-event-listener"
)

var (
	moduleCacheRegex         = regexp.MustCompile(`(?:const|let|var)\s+\w+\s*=\s*new\s+(?:Map|Set)\s*\(\s*\)`)
	subscribeRegex           = regexp.MustCompile(`\.subscribe\s*\(`)
	unsubscribeRegex         = regexp.MustCompile(`\.unsubscribe\s*\(`)
	setIntervalRegex         = regexp.MustCompile(`\bsetInterval\s*\(`)
	clearIntervalRegex       = regexp.MustCompile(`\bclearInterval\s*\(`)
	addEventListenerRegex    = regexp.MustCompile(`\.addEventListener\s*\(`)
	removeEventListenerRegex = regexp.MustCompile(`\.removeEventListener\s*\(`)
	useEffectRegex           = regexp.MustCompile(`\buseEffect\s*\(`)
)

// MemoryLint re-reads every TS/JS/TSX/JSX source file under root and
// flags memory-leak-shaped patterns outside React's useEffect cleanup
// path: unbounded module-level Map/Set caches, .subscribe() without a
// matching .unsubscribe(), setInterval without clearInterval, and
// addEventListener without removeEventListener (spec §4.9's "memory
// lint" slot). This runs over raw source text rather than the parsed
// FileAnalysis because the leak shape is about pairing two textual
// call sites within a window of lines, not about symbol resolution.
func MemoryLint(root string, files []model.FileAnalysis) []model.LintFinding {
	var out []model.LintFinding
	for _, f := range files {
		if !isLintableJSFamily(f.Language) || f.IsTest || f.IsGenerated {
			continue
		}
		if isMemoryLintServiceWorker(f.Path) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
		if err != nil {
			continue
		}
		out = append(out, lintMemoryFile(f.Path, string(content))...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

func isLintableJSFamily(lang model.Language) bool {
	switch lang {
	case model.LangTS, model.LangTSX, model.LangJS, model.LangJSX, model.LangMJS, model.LangCJS:
		return true
	default:
		return false
	}
}

func isMemoryLintServiceWorker(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, "sw.js") ||
		strings.HasSuffix(p, "service-worker.js") ||
		strings.HasSuffix(p, "serviceworker.js") ||
		strings.Contains(p, "/sw/") ||
		strings.Contains(p, "workbox")
}

func isMemoryLintReactFile(path string) bool {
	return strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".jsx")
}

func lintMemoryFile(file, content string) []model.LintFinding {
	var issues []model.LintFinding
	isReact := isMemoryLintReactFile(file)
	usesEffect := useEffectRegex.MatchString(content)

	issues = append(issues, checkModuleCache(content, file)...)
	issues = append(issues, checkSubscriptionLeaks(content, file)...)
	if !isReact || !usesEffect {
		issues = append(issues, checkGlobalIntervals(content, file)...)
	}
	if !isReact {
		issues = append(issues, checkGlobalEventListeners(content, file)...)
	}
	return issues
}

func hasCacheLimitPattern(content string) bool {
	lower := strings.ToLower(content)
	for _, marker := range []string{"lru", "maxsize", "max_size", "maxentries", "max_entries", ".delete(", ".clear("} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func linesOf(content string) []string {
	return strings.Split(content, "\n")
}

func contextWindow(lines []string, lineNum, before, after int) string {
	start := lineNum - before
	if start < 0 {
		start = 0
	}
	end := lineNum + after
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func checkModuleCache(content, file string) []model.LintFinding {
	if hasCacheLimitPattern(content) {
		return nil
	}
	var out []model.LintFinding
	lines := linesOf(content)
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)
		if indent > memoryLintMaxModuleIndent {
			continue
		}
		if !moduleCacheRegex.MatchString(line) {
			continue
		}
		if hasCacheLimitPattern(contextWindow(lines, i, 2, 3)) {
			continue
		}
		col := strings.Index(line, "new") + 1
		out = append(out, model.LintFinding{
			File:       file,
			Line:       i + 1,
			Column:     col,
			Rule:       lintRuleModuleCache,
			Severity:   model.LintWarning,
			Message:    "Module-level Map/Set without size limit can grow unbounded",
			Suggestion: "Consider using LRU cache with max size, or implement eviction logic",
		})
	}
	return out
}

func hasZustandUnsubscribePattern(content string) bool {
	lower := strings.ToLower(content)
	return (strings.Contains(lower, "unsubscribe") || strings.Contains(lower, "unsub")) &&
		(strings.Contains(lower, "unsubscribe()") || strings.Contains(lower, "unsub()") || strings.Contains(lower, "unsubscribe?.()"))
}

func hasUseSyncExternalStorePattern(content string) bool {
	return strings.Contains(content, "useSyncExternalStore")
}

func checkSubscriptionLeaks(content, file string) []model.LintFinding {
	if hasZustandUnsubscribePattern(content) || hasUseSyncExternalStorePattern(content) {
		return nil
	}

	subscribeCount := len(subscribeRegex.FindAllString(content, -1))
	unsubscribeCount := len(unsubscribeRegex.FindAllString(content, -1))
	if subscribeCount <= unsubscribeCount {
		return nil
	}
	unmatched := subscribeCount - unsubscribeCount

	var out []model.LintFinding
	lines := linesOf(content)
	found := 0
	for i, line := range lines {
		if found >= unmatched {
			break
		}
		if !subscribeRegex.MatchString(line) {
			continue
		}
		if strings.Contains(line, "unsubscribe") || strings.Contains(line, "unsub") {
			continue
		}
		ctx := contextWindow(lines, i, 5, subscriptionContextWindow)
		if unsubscribeRegex.MatchString(ctx) || strings.Contains(ctx, "takeUntil") || strings.Contains(ctx, "take(1)") || strings.Contains(ctx, "first()") {
			continue
		}
		col := strings.Index(line, ".subscribe") + 1
		out = append(out, model.LintFinding{
			File:       file,
			Line:       i + 1,
			Column:     col,
			Rule:       lintRuleSubscriptionLeak,
			Severity:   model.LintError,
			Message:    "Subscription created without corresponding unsubscribe - potential memory leak",
			Suggestion: "Store subscription and call .unsubscribe() when done, or use takeUntil pattern",
		})
		found++
	}
	return out
}

func checkGlobalIntervals(content, file string) []model.LintFinding {
	intervalCount := len(setIntervalRegex.FindAllString(content, -1))
	clearCount := len(clearIntervalRegex.FindAllString(content, -1))
	if intervalCount <= clearCount {
		return nil
	}

	var out []model.LintFinding
	lines := linesOf(content)
	for i, line := range lines {
		if !setIntervalRegex.MatchString(line) {
			continue
		}
		ctx := contextWindow(lines, i, 5, intervalContextWindow)
		if clearIntervalRegex.MatchString(ctx) {
			continue
		}
		col := strings.Index(line, "setInterval") + 1
		out = append(out, model.LintFinding{
			File:       file,
			Line:       i + 1,
			Column:     col,
			Rule:       lintRuleGlobalInterval,
			Severity:   model.LintError,
			Message:    "setInterval in non-React file without cleanup mechanism",
			Suggestion: "Store interval ID and call clearInterval() in cleanup logic",
		})
	}
	return out
}

func checkGlobalEventListeners(content, file string) []model.LintFinding {
	addCount := len(addEventListenerRegex.FindAllString(content, -1))
	removeCount := len(removeEventListenerRegex.FindAllString(content, -1))
	if addCount <= removeCount {
		return nil
	}

	var out []model.LintFinding
	lines := linesOf(content)
	for i, line := range lines {
		if !addEventListenerRegex.MatchString(line) {
			continue
		}
		ctx := contextWindow(lines, i, 5, eventListenerContextWindow)
		if removeEventListenerRegex.MatchString(ctx) {
			continue
		}
		col := strings.Index(line, ".addEventListener") + 1
		out = append(out, model.LintFinding{
			File:       file,
			Line:       i + 1,
			Column:     col,
			Rule:       lintRuleGlobalListener,
			Severity:   model.LintWarning,
			Message:    "addEventListener outside React lifecycle - ensure cleanup exists",
			Suggestion: "Ensure removeEventListener is called when listener is no longer needed",
		})
	}
	return out
}
