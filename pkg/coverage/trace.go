// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package coverage

import (
	"fmt"
	"sort"

	"github.com/loctreehq/loctree/pkg/model"
)

// Trace answers a single-handler-name query: where is it defined, who
// calls it, and is the wiring complete (spec §4.6). Grounded on the
// teacher's pkg/tools/trace.go TracePath, which resolves a single
// named path through the call graph and formats one verdict string;
// here the "graph" is the RPC bridge rather than a call graph.
func Trace(files []model.FileAnalysis, name string) model.TraceResult {
	norm := NormalizeCommandName(name)
	result := model.TraceResult{Name: name}

	for _, f := range files {
		for _, h := range f.CommandHandlers {
			if NormalizeCommandName(h.Name) == norm {
				ref := h
				result.BackendDefinition = &ref
				result.BackendFile = f.Path
			}
		}
	}

	var mentionFiles []string
	for _, f := range files {
		for _, call := range f.CommandCalls {
			if NormalizeCommandName(call.Name) != norm {
				continue
			}
			result.FrontendInvokes = append(result.FrontendInvokes, call)
			result.FrontendFiles = append(result.FrontendFiles, f.Path)
		}
		for _, use := range f.LocalUses {
			if NormalizeCommandName(use) == norm {
				mentionFiles = append(mentionFiles, f.Path)
			}
		}
	}
	result.FrontendFiles = dedupeSorted(result.FrontendFiles)
	result.FrontendMentions = dedupeSorted(mentionFiles)
	sort.Slice(result.FrontendInvokes, func(i, j int) bool {
		return result.FrontendInvokes[i].Line < result.FrontendInvokes[j].Line
	})

	switch {
	case result.BackendDefinition == nil && len(result.FrontendInvokes) == 0:
		result.Verdict = model.TraceNotFound
		result.Suggestion = fmt.Sprintf("no handler or invoke site found for %q", name)
	case result.BackendDefinition == nil:
		result.Verdict = model.TraceMissingHandler
		result.Suggestion = fmt.Sprintf("invoked from %d file(s) but no backend handler matches %q", len(result.FrontendFiles), name)
	case len(result.FrontendInvokes) == 0:
		result.Verdict = model.TraceUnused
		result.Suggestion = fmt.Sprintf("%q is defined in %s but no frontend invoke site calls it", name, result.BackendFile)
	default:
		result.Verdict = model.TraceConnected
		result.Suggestion = fmt.Sprintf("%q connects %s to %d frontend call site(s)", name, result.BackendFile, len(result.FrontendInvokes))
	}

	return result
}
