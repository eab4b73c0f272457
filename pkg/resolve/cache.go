// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package resolve maps an import specifier in one file to a concrete
// resolved file path: TS path aliases, Node-style relative/index
// resolution, package.json#exports, Python relative/absolute/namespace
// packages, and Rust crate::/super::/self::/mod path resolution (spec
// §4.3). Grounded on the teacher's resolver.go: the suffix-matching,
// cache-as-you-go idiom of findPackageByImportPath generalizes
// directly to every resolver kind here.
package resolve

import "sync"

// cacheKey is (base, spec), where base is the importing file's path.
type cacheKey struct {
	base string
	spec string
}

// Cache is the resolver's process-local memoization table. Spec §9
// ("Resolver cache lock") requires the mutex even though the current
// scanner runs single-threaded, in anticipation of future
// parallelized extraction.
type Cache struct {
	mu   sync.Mutex
	hits map[cacheKey]string // "" means a cached miss
}

// NewCache builds an empty resolver cache.
func NewCache() *Cache {
	return &Cache{hits: make(map[cacheKey]string)}
}

// Get returns the cached resolution for (base, spec) and whether an
// entry exists at all (a cached miss still reports ok=true, found="").
func (c *Cache) Get(base, spec string) (resolved string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resolved, ok = c.hits[cacheKey{base: base, spec: spec}]
	return resolved, ok
}

// Put stores a resolution (possibly empty, recording a miss).
func (c *Cache) Put(base, spec, resolved string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits[cacheKey{base: base, spec: spec}] = resolved
}

// Stats reports the cache's current size, mirroring the teacher's
// CallResolver.Stats() accounting idiom.
func (c *Cache) Stats() (entries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hits)
}
