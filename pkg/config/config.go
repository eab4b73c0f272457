// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads loctree's two on-disk configuration inputs
// (spec §6): <root>/.loctree/config.toml and <root>/.loctignore.
// Grounded on the teacher's cmd/cie/init.go DefaultConfig/ConfigPath
// pattern (a struct of defaults, a known relative path, overridable
// per-flag), generalized from the teacher's hand-written YAML to a
// real TOML decode via github.com/pelletier/go-toml/v2, since this
// project's config format is TOML, not YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigDirName is the project-local directory loctree keeps its
// snapshot, findings, and config under.
const ConfigDirName = ".loctree"

// ConfigFileName is the TOML config file inside ConfigDirName.
const ConfigFileName = "config.toml"

// IgnoreFileName is the gitignore-style file loctree reads from the
// scan root, separate from config.toml (spec §6).
const IgnoreFileName = ".loctignore"

// Config holds the tunables spec §6 says config.toml carries: custom
// command-macro names, DOM/non-invoke exclusion lists, and the
// invalid-command-name list used by the JS/TS command detector.
type Config struct {
	// CommandMacros extends the default `#[tauri::command]`-style
	// attribute names the Rust extractor treats as RPC handlers.
	CommandMacros []string `toml:"command_macros"`

	// CommandFunctions extends the default `invoke`/`safeInvoke`
	// call-site names the JS/TS extractor treats as RPC call sites.
	CommandFunctions []string `toml:"command_functions"`

	// ExcludeNamespaces lists namespace-import aliases whose method
	// calls are never treated as command calls (e.g. "vscode" so that
	// `vscode.commands.registerCommand(...)` isn't mistaken for invoke).
	ExcludeNamespaces []string `toml:"exclude_namespaces"`

	// InvalidCommandNames lists literal strings that look like command
	// names syntactically but are known false positives (reserved
	// words, editor-host built-ins) and must be dropped from coverage.
	InvalidCommandNames []string `toml:"invalid_command_names"`

	// ExternalCommandPrefixes lists normalized-name prefixes that
	// belong to another application's command surface (e.g. a host
	// editor's built-in commands) and must never be reported as a
	// missing handler (spec §4.6: "allowlist of external app command
	// prefixes").
	ExternalCommandPrefixes []string `toml:"external_command_prefixes"`

	// Thresholds holds the named, tuneable constants for barrel-chaos
	// detection (spec §4.5: "named and tuneable, not magic").
	Thresholds Thresholds `toml:"thresholds"`
}

// Thresholds are the fixed-but-named constants spec §4.5 requires.
type Thresholds struct {
	// MissingBarrelMinFiles is N: a directory needs at least this many
	// files before "missing index.*" is worth reporting.
	MissingBarrelMinFiles int `toml:"missing_barrel_min_files"`
	// MissingBarrelMinImporters is M: at least this many external
	// importers before a missing barrel is worth reporting.
	MissingBarrelMinImporters int `toml:"missing_barrel_min_importers"`
	// DeepChainLength is D: re-export chain length that counts as deep.
	DeepChainLength int `toml:"deep_chain_length"`
	// HubCoreInDegree / HubSharedInDegree bucket files into
	// core/shared/peripheral/leaf by in-degree (spec §4.4).
	HubCoreInDegree   int `toml:"hub_core_in_degree"`
	HubSharedInDegree int `toml:"hub_shared_in_degree"`
	// SearchFuzzyThreshold is the normalized similarity cutoff for the
	// search query's fuzzy facet (spec §4.8, "threshold ≈ 0.7").
	SearchFuzzyThreshold float64 `toml:"search_fuzzy_threshold"`
	// QuickWinsLimit bounds the for-AI bundle's quick_wins list
	// (spec §4.9 / §9: a UX decision exposed here as a knob).
	QuickWinsLimit int `toml:"quick_wins_limit"`
}

// DefaultThresholds returns the constants named in spec §4.5/§4.8/§4.9.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MissingBarrelMinFiles:     5,
		MissingBarrelMinImporters: 3,
		DeepChainLength:           3,
		HubCoreInDegree:           10,
		HubSharedInDegree:         3,
		SearchFuzzyThreshold:      0.7,
		QuickWinsLimit:            10,
	}
}

// Default returns the zero-config defaults applied when no
// config.toml is present, mirroring DefaultConfig(projectID) from the
// teacher's init.go.
func Default() *Config {
	return &Config{
		CommandMacros:       []string{"tauri::command"},
		CommandFunctions:    []string{"invoke", "safeInvoke"},
		ExcludeNamespaces:   []string{"vscode"},
		InvalidCommandNames: []string{"then", "catch", "finally", "constructor"},
		Thresholds:          DefaultThresholds(),
	}
}

// Path returns the path to config.toml under root, mirroring the
// teacher's ConfigPath(cwd) helper.
func Path(root string) string {
	return filepath.Join(root, ConfigDirName, ConfigFileName)
}

// Load reads <root>/.loctree/config.toml. A missing file is not an
// error: it returns Default(). A malformed file is an error, since
// silently ignoring a typo'd config would be surprising.
func Load(root string) (*Config, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	return cfg, nil
}

// Save writes cfg as TOML to <root>/.loctree/config.toml, creating the
// parent directory if needed (mirrors the teacher's saveInitConfig).
func Save(root string, cfg *Config) error {
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	path := Path(root)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// IsExcludedNamespace reports whether alias is a configured namespace
// whose method calls should never be mistaken for command calls.
func (c *Config) IsExcludedNamespace(alias string) bool {
	for _, ns := range c.ExcludeNamespaces {
		if ns == alias {
			return true
		}
	}
	return false
}

// IsInvalidCommandName reports whether name is a known false-positive
// command name that coverage must drop.
func (c *Config) IsInvalidCommandName(name string) bool {
	for _, n := range c.InvalidCommandNames {
		if n == name {
			return true
		}
	}
	return false
}

// IsExternalCommandPrefix reports whether normalizedName belongs to
// another application's command surface and must be excluded from
// missing-handler coverage (spec §4.6).
func (c *Config) IsExternalCommandPrefix(normalizedName string) bool {
	for _, p := range c.ExternalCommandPrefixes {
		if strings.HasPrefix(normalizedName, p) {
			return true
		}
	}
	return false
}
