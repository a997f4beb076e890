// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/internal/completion"
	"github.com/f1r3fly-io/rholang-language-server/internal/workspace"
)

func TestNewDispatcherWiresFields(t *testing.T) {
	ws := workspace.New()
	dict := completion.NewDict(nil)
	adapter := Adapter{}

	d := NewDispatcher(ws, nil, dict, adapter)
	require.NotNil(t, d)
	assert.Same(t, ws, d.Workspace)
	assert.Same(t, dict, d.Dict)
}
