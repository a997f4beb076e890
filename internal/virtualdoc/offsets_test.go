// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package virtualdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapIntoVirtualAndBackRoundTrip(t *testing.T) {
	table := NewOffsetTable([]OffsetEntry{
		{ParentStart: 10, ParentEnd: 20, VirtualStart: 0, VirtualEnd: 10},
		{ParentStart: 20, ParentEnd: 30, VirtualStart: 10, VirtualEnd: 20},
	})

	v, ok := table.MapIntoVirtual(15)
	require.True(t, ok)
	assert.Equal(t, 5, v)

	p, ok := table.MapToParent(v)
	require.True(t, ok)
	assert.Equal(t, 15, p)
}

func TestMapIntoVirtualOutsideAnyRunFails(t *testing.T) {
	table := NewOffsetTable([]OffsetEntry{{ParentStart: 10, ParentEnd: 20, VirtualStart: 0, VirtualEnd: 10}})
	_, ok := table.MapIntoVirtual(5)
	assert.False(t, ok)
	_, ok = table.MapIntoVirtual(25)
	assert.False(t, ok)
}

func TestOffsetTableSortsEntriesByParentStart(t *testing.T) {
	table := NewOffsetTable([]OffsetEntry{
		{ParentStart: 20, ParentEnd: 30, VirtualStart: 10, VirtualEnd: 20},
		{ParentStart: 10, ParentEnd: 20, VirtualStart: 0, VirtualEnd: 10},
	})
	v, ok := table.MapIntoVirtual(12)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}
