// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// buildTree constructs: Par[0,20) containing Send[2,8) containing Var[3,4).
func buildTree() *types.Node {
	v := &types.Node{
		Kind:    types.KindVar,
		Rel:     types.RelativePosition{ByteDelta: 1},
		ByteLen: 1,
	}
	send := &types.Node{
		Kind:     types.KindSend,
		Rel:      types.RelativePosition{ByteDelta: 2},
		ByteLen:  6,
		Children: []*types.Node{v},
	}
	par := &types.Node{
		Kind:     types.KindPar,
		ByteLen:  20,
		Children: []*types.Node{send},
	}
	return par
}

func TestFindNodeAtPosition(t *testing.T) {
	idx := BuildPositionIndex(buildTree())

	t.Run("innermost node wins", func(t *testing.T) {
		n := idx.FindNodeAtPosition(types.Position{Byte: 3})
		require.NotNil(t, n)
		assert.Equal(t, types.KindVar, n.Kind)
	})

	t.Run("position inside Send but outside Var", func(t *testing.T) {
		n := idx.FindNodeAtPosition(types.Position{Byte: 6})
		require.NotNil(t, n)
		assert.Equal(t, types.KindSend, n.Kind)
	})

	t.Run("position inside Par only", func(t *testing.T) {
		n := idx.FindNodeAtPosition(types.Position{Byte: 15})
		require.NotNil(t, n)
		assert.Equal(t, types.KindPar, n.Kind)
	})

	t.Run("position outside document returns nil", func(t *testing.T) {
		n := idx.FindNodeAtPosition(types.Position{Byte: 99})
		assert.Nil(t, n)
	})
}

func TestAbsolutePositions(t *testing.T) {
	root := buildTree()
	idx := BuildPositionIndex(root)
	positions := idx.AbsolutePositions()

	send := root.Children[0]
	r, ok := positions[send]
	require.True(t, ok)
	assert.Equal(t, 2, r.Start.Byte)
	assert.Equal(t, 8, r.End.Byte)
}
