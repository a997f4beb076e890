// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cache persists the workspace symbol store to a warm-start blob
// and resolves the workspace's git HEAD hash used to version it.
// Implements: spec.md §6 "Persisted state".
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// ErrSchemaMismatch indicates the cache blob's version does not match the
// running core's version; callers invalidate the cache and reindex fully
// rather than attempting a partial load (spec §7 "SchemaMismatch
// (persisted cache): invalidate cache; fall back to full reindex").
var ErrSchemaMismatch = errors.New("cache schema mismatch")

const blobFileName = "index.json"

// FileState is the recorded (content hash, mtime) for one indexed file,
// used to detect whether it changed since the blob was written.
type FileState struct {
	ContentHash uint64    `json:"content_hash"`
	ModTime     time.Time `json:"mod_time"`
}

// Blob is the single serialized warm-start payload (spec.md §6): every
// workspace symbol plus the per-file fingerprint used to validate reuse.
type Blob struct {
	Version    string               `json:"version"`
	GitHead    string               `json:"git_head"`
	Symbols    []types.Symbol       `json:"symbols"`
	FileHashes map[string]FileState `json:"file_hashes"`
}

// Store reads and writes the warm-start blob beneath a workspace-relative
// cache directory. Grounded on the teacher's internal/ast/writer.go
// WriteFile: same atomic temp-file-then-rename strategy, retargeted from
// gofmt-rendered Go source to a JSON-encoded index blob, and generalized
// from os.* calls to an injected afero.Fs so tests run against an
// in-memory filesystem (spec.md §2.3).
type Store struct {
	fs  afero.Fs
	dir string
}

// New builds a Store rooted at dir (the workspace's cache directory) using
// fs for all I/O.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Path returns the blob's full path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, blobFileName)
}

// HashContent computes the 64-bit content hash stored in FileState,
// reusing the same hash family internal/parsecache keys its cache by so a
// file's fingerprint is comparable across both caches.
func HashContent(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Load reads and decodes the blob, rejecting it with ErrSchemaMismatch if
// its Version does not equal currentVersion. A missing file is reported as
// a plain "not found" error (os.ErrNotExist), distinct from a schema
// mismatch, so callers can tell "never cached" from "cached by a different
// build" apart for logging purposes, even though both lead to a full
// reindex.
func (s *Store) Load(currentVersion string) (*Blob, error) {
	f, err := s.fs.Open(s.Path())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var blob Blob
	if err := json.NewDecoder(f).Decode(&blob); err != nil {
		return nil, fmt.Errorf("decoding cache blob: %w", err)
	}
	if blob.Version != currentVersion {
		return nil, fmt.Errorf("%w: blob version %q, running version %q", ErrSchemaMismatch, blob.Version, currentVersion)
	}
	return &blob, nil
}

// Stale reports whether any file recorded in blob has a content hash or
// mtime mismatch against current, meaning the blob cannot be reused as-is.
// Implements spec.md §6 "iff ... every file's (hash, mtime) is unchanged".
func Stale(blob *Blob, current map[string]FileState) bool {
	if len(blob.FileHashes) != len(current) {
		return true
	}
	for uri, want := range blob.FileHashes {
		got, ok := current[uri]
		if !ok || got.ContentHash != want.ContentHash || !got.ModTime.Equal(want.ModTime) {
			return true
		}
	}
	return false
}

// Save atomically writes blob to the store's path: a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// corrupt blob in place (grounded on WriteFile's identical strategy).
func (s *Store) Save(blob *Blob) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", s.dir, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, ".rholang-ls-cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			s.fs.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding cache blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("renaming temp cache file to %s: %w", s.Path(), err)
	}

	success = true
	return nil
}

// Invalidate removes the blob so the next Load reports "not found" rather
// than stale data, used when a .rho file change invalidates the cache
// outright (spec.md §6 "Any .rho modification invalidates the blob").
func (s *Store) Invalidate() error {
	err := s.fs.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
