// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/loctreehq/loctree/pkg/model"
)

// cacheSchemaVersion guards against loading a fingerprint cache
// written by an incompatible scanner version; a mismatch is treated
// as a cold cache rather than an error (spec §4.7).
const cacheSchemaVersion = "loctree-cache/1"

// Cache is the scanner's fingerprint store: a path -> Fingerprint map
// persisted alongside the snapshot so a later `loctree scan` can skip
// re-extracting files that have not changed. Grounded on the
// teacher's checkpoint.go FileHashes map, with content hashing added
// so mtime-only filesystems (and touched-but-unmodified files) don't
// force spurious re-extraction.
type Cache struct {
	mu      sync.Mutex
	Version string                      `json:"version"`
	Entries map[string]model.Fingerprint `json:"entries"`
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{Version: cacheSchemaVersion, Entries: map[string]model.Fingerprint{}}
}

// LoadCache reads a fingerprint cache from path. A missing file or a
// version mismatch returns a fresh empty cache rather than an error,
// since the scanner degrades to a full scan in that case.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCache(), nil
		}
		return nil, err
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return NewCache(), nil
	}
	if c.Version != cacheSchemaVersion || c.Entries == nil {
		return NewCache(), nil
	}
	return &c, nil
}

// Save atomically writes the cache to path via a temp-sibling-rename,
// matching the snapshot store's write discipline (spec §4.7/§6).
func (c *Cache) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Get returns the stored fingerprint for path, if any.
func (c *Cache) Get(path string) (model.Fingerprint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fp, ok := c.Entries[path]
	return fp, ok
}

// Put records the fingerprint for path, overwriting any prior entry.
func (c *Cache) Put(path string, fp model.Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entries[path] = fp
}

// ComputeFingerprint builds a Fingerprint for the file at absPath
// (root-relative path rel is stored as the cache key). Size and mtime
// come from os.Stat; the content hash is only computed when
// withContentHash is set, since hashing every file defeats the point
// of a cheap first-pass check (spec §4.1: "cheap fingerprint").
func ComputeFingerprint(absPath, rel string, withContentHash bool) (model.Fingerprint, error) {
	st, err := os.Stat(absPath)
	if err != nil {
		return model.Fingerprint{}, err
	}
	fp := model.Fingerprint{
		Path:    rel,
		Size:    st.Size(),
		ModTime: st.ModTime(),
	}
	if withContentHash {
		hash, err := hashFile(absPath)
		if err != nil {
			return model.Fingerprint{}, err
		}
		fp.ContentHash = hash
	}
	return fp, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
