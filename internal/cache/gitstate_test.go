// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeadHashReportsErrNoGitOutsideARepo(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveHeadHash(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoGit)
}
