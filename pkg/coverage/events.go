// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package coverage

import (
	"sort"
	"strings"

	"github.com/loctreehq/loctree/pkg/model"
)

// resolvedEvent is an emit/listen site after identifier-form names
// have been resolved through the owning file's event_consts map.
type resolvedEvent struct {
	name      string
	isDynamic bool
	file      string
}

// Events compares emit and listen sites across every file and reports
// emits nobody listens for and listens nobody emits to (spec §4.6).
func Events(files []model.FileAnalysis) model.EventCoverage {
	var emits, listens []resolvedEvent

	for _, f := range files {
		for _, e := range f.EventEmits {
			emits = append(emits, resolveEvent(f, e))
		}
		for _, l := range f.EventListens {
			listens = append(listens, resolveEvent(f, l))
		}
	}

	var result []model.EventGap

	emitByName := map[string][]string{}
	for _, e := range emits {
		emitByName[e.name] = append(emitByName[e.name], e.file)
	}
	listenByName := map[string][]string{}
	for _, l := range listens {
		listenByName[l.name] = append(listenByName[l.name], l.file)
	}

	dynamicEmits := make([]resolvedEvent, 0)
	for _, e := range emits {
		if e.isDynamic {
			dynamicEmits = append(dynamicEmits, e)
		}
	}
	dynamicListens := make([]resolvedEvent, 0)
	for _, l := range listens {
		if l.isDynamic {
			dynamicListens = append(dynamicListens, l)
		}
	}

	var emitNames []string
	for n := range emitByName {
		emitNames = append(emitNames, n)
	}
	sort.Strings(emitNames)
	for _, n := range emitNames {
		if _, ok := listenByName[n]; ok {
			continue
		}
		if matchesAnyPattern(n, dynamicListens) {
			continue
		}
		if strings.Contains(n, "*") && patternMatchesAnyName(n, listenByName) {
			continue
		}
		result = append(result, model.EventGap{
			Kind:  model.EventGhostEmit,
			Name:  n,
			Files: dedupeSorted(emitByName[n]),
		})
	}

	var listenNames []string
	for n := range listenByName {
		listenNames = append(listenNames, n)
	}
	sort.Strings(listenNames)
	for _, n := range listenNames {
		if _, ok := emitByName[n]; ok {
			continue
		}
		if matchesAnyPattern(n, dynamicEmits) {
			continue
		}
		result = append(result, model.EventGap{
			Kind:  model.EventGhostListen,
			Name:  n,
			Files: dedupeSorted(listenByName[n]),
		})
	}

	return model.EventCoverage{Gaps: result}
}

// resolveEvent follows an identifier-form event name through the
// owning file's event_consts map; a literal name (not found in the
// map) is used as-is.
func resolveEvent(f model.FileAnalysis, site model.EventSite) resolvedEvent {
	name := site.Name
	if literal, ok := f.EventConsts[site.Name]; ok {
		name = literal
	}
	return resolvedEvent{name: name, isDynamic: site.IsDynamic, file: f.Path}
}

// matchesAnyPattern reports whether name is matched by any dynamic
// pattern in candidates, e.g. a listen of "download:progress" matches
// an emit pattern "download:*" produced from format!("download:{}",…).
func matchesAnyPattern(name string, candidates []resolvedEvent) bool {
	for _, c := range candidates {
		if patternMatches(c.name, name) {
			return true
		}
	}
	return false
}

// patternMatchesAnyName reports whether a dynamic pattern such as
// "download:*" matches any literal name in names.
func patternMatchesAnyName(pattern string, names map[string][]string) bool {
	for name := range names {
		if patternMatches(pattern, name) {
			return true
		}
	}
	return false
}

// patternMatches compares a wildcard pattern (using "*" in place of a
// format!(...) substitution) against a literal event name.
func patternMatches(pattern, name string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == name
	}
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	rest := strings.TrimPrefix(name, parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		idx := strings.Index(rest, p)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(p):]
	}
	return true
}
