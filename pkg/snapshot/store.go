// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package snapshot loads and persists the `<root>/.loctree/snapshot.json`
// artifact (spec §4.7/§6). Grounded on the teacher's
// pkg/ingestion/checkpoint.go CheckpointManager (JSON load/save,
// nil-map backward-compatible init, atomic temp-file-then-rename
// write) and pkg/storage/embedded.go's local-durability framing,
// generalized from ingestion-progress tracking to a read-mostly
// analysis artifact.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/loctreehq/loctree/internal/errors"
	"github.com/loctreehq/loctree/pkg/config"
	"github.com/loctreehq/loctree/pkg/model"
)

// FileName is the snapshot's name under config.ConfigDirName.
const FileName = "snapshot.json"

// Path returns <root>/.loctree/snapshot.json, honoring LOCT_CACHE_DIR
// when set (spec §6).
func Path(root string) string {
	if dir := os.Getenv("LOCT_CACHE_DIR"); dir != "" {
		return filepath.Join(dir, FileName)
	}
	return filepath.Join(root, config.ConfigDirName, FileName)
}

// LoadOptions controls Load's staleness and auto-scan policy (spec §4.7).
type LoadOptions struct {
	// FailStale, if true, requires the snapshot's git_commit to
	// prefix-match the repo's current HEAD.
	FailStale bool
	// Fresh, if true, is handled by the caller (it skips Load
	// entirely and forces a rescan); Load itself has no special
	// behavior for it, but the field is carried so callers can pass
	// one options value straight from flag parsing.
	Fresh bool
	// NoScan, if true, forbids the caller from auto-scanning a
	// missing snapshot; Load still just returns the NotFound IO error
	// either way, and the caller decides whether to scan.
	NoScan bool
}

// Load reads the snapshot at root. A missing file is a KindIO error
// (spec §4.7: "or an IO error with NotFound"). A malformed file is
// also a KindIO error, since a corrupt artifact is as unusable as a
// missing one. With opts.FailStale, the snapshot's recorded commit
// must prefix-match the repository's current HEAD.
func Load(root string, opts LoadOptions) (*model.Snapshot, error) {
	path := Path(root)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(
				"snapshot not found",
				fmt.Sprintf("no snapshot at %s", path),
				"run `loctree scan` to produce one",
				err,
			)
		}
		return nil, errors.NewIOError("failed to read snapshot", path, "check file permissions", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewIOError("snapshot is corrupt", err.Error(), "re-run `loctree scan` to regenerate it", err)
	}

	if opts.FailStale {
		head, herr := headCommit(root)
		if herr == nil && head != "" && snap.Metadata.GitCommit != "" {
			if !strings.HasPrefix(head, snap.Metadata.GitCommit) && !strings.HasPrefix(snap.Metadata.GitCommit, head) {
				return nil, errors.NewStaleSnapshotError(snap.Metadata.GitCommit, head)
			}
		}
	}

	return &snap, nil
}

// Save builds metadata from files/edges and writes the snapshot
// atomically: a temp file in the same directory, then os.Rename
// (spec §5: "written atomically ... temp sibling and renaming").
func Save(root string, files []model.FileAnalysis, edges []model.Edge, roots []string) (*model.Snapshot, error) {
	commit, _ := headCommit(root)
	branch, _ := headBranch(root)

	langs := map[string]bool{}
	totalLOC := 0
	for _, f := range files {
		langs[string(f.Language)] = true
		totalLOC += f.LOC
	}
	var langList []string
	for l := range langs {
		langList = append(langList, l)
	}

	snap := &model.Snapshot{
		Metadata: model.Metadata{
			Version:   model.SchemaVersion,
			GitCommit: commit,
			GitBranch: branch,
			CreatedAt: now(),
			Roots:     roots,
			FileCount: len(files),
			TotalLOC:  totalLOC,
			Languages: langList,
		},
		Files: files,
		Edges: edges,
	}

	if err := write(root, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// write performs the atomic persist: marshal, write to a temp sibling,
// rename over the target path.
func write(root string, snap *model.Snapshot) error {
	path := Path(root)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError("failed to create snapshot directory", dir, "check write permissions on the root", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.NewInternalError("failed to encode snapshot", err.Error(), "", err)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*.json.tmp")
	if err != nil {
		return errors.NewIOError("failed to create temp snapshot file", dir, "check write permissions on the root", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIOError("failed to write snapshot", tmpPath, "check available disk space", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIOError("failed to finalize snapshot write", tmpPath, "", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIOError("failed to finalize snapshot", path, "check write permissions on the root", err)
	}
	return nil
}

// headCommit returns the short HEAD commit hash for root, or "" if
// root is not a git repository.
func headCommit(root string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// headBranch returns the current branch name for root, or "" if
// detached or not a git repository.
func headBranch(root string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(string(out))
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// now is a seam so Save's timestamp can be stamped in tests without
// the wall clock, following the teacher's own StartTime/LastUpdateTime
// string-stamping idiom in checkpoint.go.
var now = func() time.Time { return time.Now().UTC() }
