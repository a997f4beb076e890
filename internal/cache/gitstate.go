// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cache

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNoGit indicates workDir is not a git working tree; callers treat a
// missing repository as an empty HEAD hash rather than failing — the
// persisted cache still works outside a git checkout, it simply cannot use
// the commit as part of its version key.
var ErrNoGit = errors.New("not a git repository")

// ResolveHeadHash returns workDir's current HEAD commit hash, used as part
// of the persisted-cache version key (spec.md §6 Persisted state) so a
// branch checkout or commit invalidates a stale cache.
//
// Grounded on the teacher's internal/git/git.go Open/Repo: the identical
// go-git PlainOpen + Head() read path, with every write-side operation
// (commit, undo, dirty-commit) deliberately not carried over — the spec
// only needs a read-only fingerprint, never a commit made on the user's
// behalf.
func ResolveHeadHash(workDir string) (string, error) {
	repo, err := gogit.PlainOpen(workDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
