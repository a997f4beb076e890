// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativePositionAdd(t *testing.T) {
	base := Position{Row: 2, Column: 5, Byte: 40}

	t.Run("same row accumulates column", func(t *testing.T) {
		rel := RelativePosition{RowDelta: 0, ColDelta: 3, ByteDelta: 3}
		got := rel.Add(base)
		assert.Equal(t, Position{Row: 2, Column: 8, Byte: 43}, got)
	})

	t.Run("new row resets column", func(t *testing.T) {
		rel := RelativePosition{RowDelta: 1, ColDelta: 2, ByteDelta: 10}
		got := rel.Add(base)
		assert.Equal(t, Position{Row: 3, Column: 2, Byte: 50}, got)
	})
}

func TestSpanContains(t *testing.T) {
	span := Span{Start: Position{Row: 0, Column: 0, Byte: 0}, Length: 10}

	require.True(t, span.Contains(Position{Byte: 0}))
	require.True(t, span.Contains(Position{Byte: 9}))
	require.False(t, span.Contains(Position{Byte: 10}), "end byte is exclusive")
	require.False(t, span.Contains(Position{Byte: -1}))
}

func TestSpanEndMultiRow(t *testing.T) {
	span := Span{
		Start:   Position{Row: 1, Column: 4, Byte: 20},
		Length:  15,
		Rows:    2,
		LastCol: 3,
	}
	assert.Equal(t, Position{Row: 3, Column: 3, Byte: 35}, span.End())
}
