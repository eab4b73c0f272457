// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreRules is the parsed form of a .loctignore file: gitignore-style
// path patterns plus the `@loctignore:dead-ok <glob>` annotations that
// feed the dead-export finder's allowlist (spec §4.5/§6).
type IgnoreRules struct {
	matcher *gitignore.GitIgnore
	deadOK  []string
}

// LoadIgnoreRules reads <root>/.loctignore. A missing file yields an
// IgnoreRules that matches nothing and allows everything, matching
// the scanner's "honor gitignore" contract of degrading gracefully
// when there is nothing to honor.
func LoadIgnoreRules(root string) (*IgnoreRules, error) {
	path := filepath.Join(root, IgnoreFileName)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &IgnoreRules{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	var deadOK []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if glob, ok := strings.CutPrefix(trimmed, "@loctignore:dead-ok "); ok {
			deadOK = append(deadOK, strings.TrimSpace(glob))
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	return &IgnoreRules{
		matcher: gitignore.CompileIgnoreLines(patterns...),
		deadOK:  deadOK,
	}, nil
}

// Ignores reports whether the repo-relative path matches a
// .loctignore pattern and should be skipped by the scanner.
func (r *IgnoreRules) Ignores(relPath string) bool {
	if r == nil || r.matcher == nil {
		return false
	}
	return r.matcher.MatchesPath(relPath)
}

// IsDeadOK reports whether relPath matches a `@loctignore:dead-ok`
// glob, exempting any export in that file from dead-export reporting
// regardless of confidence (spec §4.5).
func (r *IgnoreRules) IsDeadOK(relPath string) bool {
	if r == nil {
		return false
	}
	for _, glob := range r.deadOK {
		if ok, _ := doublestar.Match(glob, relPath); ok {
			return true
		}
	}
	return false
}
