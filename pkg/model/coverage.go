// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package model

// CommandGapKind distinguishes the two coverage-gap directions spec
// §4.6 reports.
type CommandGapKind string

const (
	CommandMissingHandler CommandGapKind = "missing_handler"
	CommandUnusedHandler  CommandGapKind = "unused_handler"
)

// CommandGap is one RPC coverage mismatch: a frontend invoke with no
// matching backend handler, or a registered handler nothing calls.
type CommandGap struct {
	Kind           CommandGapKind `json:"kind"`
	Name           string         `json:"name"`
	NormalizedName string         `json:"normalized_name"`
	Files          []string       `json:"files"`
}

// EventGapKind distinguishes an emit with no listener from a listen
// with no emitter (spec §4.6).
type EventGapKind string

const (
	EventGhostEmit   EventGapKind = "ghost_emit"
	EventGhostListen EventGapKind = "ghost_listen"
)

// EventGap is one event-coverage mismatch.
type EventGap struct {
	Kind  EventGapKind `json:"kind"`
	Name  string       `json:"name"`
	Files []string     `json:"files"`
}

// CommandCoverage is the full RPC coverage report (spec §4.6).
type CommandCoverage struct {
	Gaps []CommandGap `json:"gaps"`
}

// EventCoverage is the full event coverage report.
type EventCoverage struct {
	Gaps []EventGap `json:"gaps"`
}

// TraceVerdict classifies a single-handler trace query's result.
type TraceVerdict string

const (
	TraceNotFound       TraceVerdict = "not_found"
	TraceMissingHandler TraceVerdict = "missing_handler"
	TraceUnused         TraceVerdict = "unused"
	TraceConnected      TraceVerdict = "connected"
)

// TraceResult answers "where is handler X defined, and who calls it"
// (spec §4.6).
type TraceResult struct {
	Name              string        `json:"name"`
	BackendDefinition *CommandRef   `json:"backend_definition,omitempty"`
	BackendFile       string        `json:"backend_file,omitempty"`
	FrontendInvokes   []CommandRef  `json:"frontend_invokes,omitempty"`
	FrontendFiles     []string      `json:"frontend_files,omitempty"`
	FrontendMentions  []string      `json:"frontend_mentions,omitempty"`
	Verdict           TraceVerdict  `json:"verdict"`
	Suggestion        string        `json:"suggestion"`
}
