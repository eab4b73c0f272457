// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// PathAlias is one `compilerOptions.paths` mapping, e.g.
// `"@/*": ["src/*"]`, generalized to any number of `*` wildcards
// (spec §4.3).
type PathAlias struct {
	Pattern       string
	Targets       []string
	WildcardCount int
}

// TSConfig holds the resolved, `extends`-flattened view of a
// tsconfig.json chain.
type TSConfig struct {
	BaseURL string
	Paths   []PathAlias
	dir     string // directory containing the tsconfig.json this was loaded from
}

// LoadTSConfig walks upward from startDir looking for tsconfig.json,
// then follows `extends` transitively (cycle-guarded per spec §8:
// "Circular extends ... falls back to the leaf file only").
func LoadTSConfig(startDir string) (*TSConfig, bool) {
	path := findUpward(startDir, "tsconfig.json")
	if path == "" {
		return nil, false
	}
	cfg := &TSConfig{dir: filepath.Dir(path)}
	visited := map[string]bool{}
	mergeChain(cfg, path, visited)
	return cfg, true
}

func findUpward(startDir, name string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeChain loads path, recurses into its `extends` target first (so
// the child's own settings are merged last and win), and merges
// `paths` key-wise: child entries override by key but do not clear
// keys the parent set (spec §4.3).
func mergeChain(cfg *TSConfig, path string, visited map[string]bool) {
	abs, err := filepath.Abs(path)
	if err != nil || visited[abs] {
		return
	}
	visited[abs] = true

	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	clean := jsonc.ToJSON(raw)
	root := gjson.ParseBytes(clean)

	if ext := root.Get("extends"); ext.Exists() && ext.String() != "" {
		parentPath := resolveExtendsPath(filepath.Dir(path), ext.String())
		if parentPath != "" {
			mergeChain(cfg, parentPath, visited)
		}
	}

	co := root.Get("compilerOptions")
	if baseURL := co.Get("baseUrl"); baseURL.Exists() {
		cfg.BaseURL = filepath.Join(filepath.Dir(path), baseURL.String())
	}

	if pathsVal := co.Get("paths"); pathsVal.Exists() {
		existing := map[string]int{}
		for i, a := range cfg.Paths {
			existing[a.Pattern] = i
		}
		pathsVal.ForEach(func(key, value gjson.Result) bool {
			pattern := key.String()
			var targets []string
			value.ForEach(func(_, t gjson.Result) bool {
				targets = append(targets, t.String())
				return true
			})
			alias := PathAlias{
				Pattern: pattern, Targets: targets,
				WildcardCount: strings.Count(pattern, "*"),
			}
			if idx, ok := existing[pattern]; ok {
				cfg.Paths[idx] = alias // child overrides by key
			} else {
				cfg.Paths = append(cfg.Paths, alias)
				existing[pattern] = len(cfg.Paths) - 1
			}
			return true
		})
	}
}

func resolveExtendsPath(fromDir, spec string) string {
	if !strings.HasSuffix(spec, ".json") {
		spec += ".json"
	}
	if strings.HasPrefix(spec, ".") {
		return filepath.Join(fromDir, spec)
	}
	// Bare package specifier (e.g. "@tsconfig/node18/tsconfig.json")
	// — resolved as a relative node_modules path, matching the rest of
	// the resolver family's "don't guess at module resolution" stance.
	return filepath.Join(fromDir, "node_modules", spec)
}

// ResolveAlias matches spec against every configured path alias in
// declaration order, substituting each captured wildcard segment into
// the target pattern (spec §4.3: "An alias pattern may contain any
// number of * wildcards").
func (c *TSConfig) ResolveAlias(spec string) []string {
	for _, alias := range c.Paths {
		if caps, ok := matchWildcardPattern(alias.Pattern, spec); ok {
			var out []string
			for _, target := range alias.Targets {
				out = append(out, substituteWildcards(target, caps))
			}
			return out
		}
	}
	return nil
}

// matchWildcardPattern matches a `*`-bearing pattern like "@/*" or
// "lib/*/*" against spec, returning the captured segments in order.
func matchWildcardPattern(pattern, spec string) ([]string, bool) {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return nil, pattern == spec
	}
	rest := spec
	var caps []string
	for i, part := range parts {
		if part == "" {
			if i == len(parts)-1 {
				caps = append(caps, rest)
				rest = ""
				continue
			}
			continue
		}
		idx := strings.Index(rest, part)
		if idx != 0 && i == 0 {
			return nil, false
		}
		if idx < 0 {
			return nil, false
		}
		if i > 0 {
			caps = append(caps, rest[:idx])
		}
		rest = rest[idx+len(part):]
	}
	return caps, true
}

func substituteWildcards(target string, caps []string) string {
	out := target
	for _, c := range caps {
		out = strings.Replace(out, "*", c, 1)
	}
	return out
}

// PackageExports is the parsed `package.json#exports` table, as a
// fallback resolution source (spec §4.3).
type PackageExports struct {
	entries map[string]string // "./p" -> resolved target (after condition selection)
}

// LoadPackageExports reads package.json at dir and extracts its
// `exports` field, supporting both the `"./p": "file.js"` shorthand
// and the conditional `{ import, require, default }` form (tried in
// that order).
func LoadPackageExports(dir string) (*PackageExports, bool) {
	path := filepath.Join(dir, "package.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	root := gjson.ParseBytes(raw)
	exportsVal := root.Get("exports")
	if !exportsVal.Exists() {
		return nil, false
	}

	pe := &PackageExports{entries: map[string]string{}}
	if exportsVal.IsObject() {
		exportsVal.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if !strings.HasPrefix(k, ".") {
				// a single top-level conditional object, not a map of subpaths
				pe.entries["."] = selectCondition(exportsVal)
				return false
			}
			pe.entries[k] = selectCondition(value)
			return true
		})
	} else if exportsVal.Type == gjson.String {
		pe.entries["."] = exportsVal.String()
	}
	return pe, true
}

func selectCondition(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	for _, cond := range []string{"import", "require", "default"} {
		if c := v.Get(cond); c.Exists() && c.Type == gjson.String {
			return c.String()
		}
	}
	return ""
}

// Resolve looks up spec (e.g. "." or "./utils") in the exports table.
func (pe *PackageExports) Resolve(spec string) (string, bool) {
	target, ok := pe.entries[spec]
	return target, ok
}
