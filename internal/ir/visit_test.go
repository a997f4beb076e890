// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

func TestVisitIdentityPreservesSharing(t *testing.T) {
	root := buildTree()
	got := Visit(Identity, root)
	assert.Same(t, root, got, "a no-op visitor must return the exact same root")
}

func TestVisitRebuildsOnlyChangedAncestors(t *testing.T) {
	root := buildTree()
	send := root.Children[0]
	varNode := send.Children[0]

	renamed := func(n *types.Node) *types.Node {
		if n == varNode {
			return n.WithMeta(types.MetaDocumentation, "renamed")
		}
		return n
	}

	got := Visit(renamed, root)

	require.NotSame(t, root, got, "root must be reallocated: a descendant changed")
	require.NotSame(t, send, got.Children[0], "Send must be reallocated: its child changed")

	newVar := got.Children[0].Children[0]
	require.NotSame(t, varNode, newVar)
	doc, ok := newVar.Meta.Documentation()
	require.True(t, ok)
	assert.Equal(t, "renamed", doc)

	// Siblings of the changed path are untouched identities, but in this
	// single-child tree there are none to assert on directly; instead
	// assert the unchanged node's own fields survived verbatim.
	assert.Equal(t, varNode.Kind, newVar.Kind)
	assert.Equal(t, varNode.ByteLen, newVar.ByteLen)
}

func TestVisitSharesUnchangedSiblings(t *testing.T) {
	a := &types.Node{Kind: types.KindVar, ByteLen: 1}
	b := &types.Node{Kind: types.KindVar, Rel: types.RelativePosition{ByteDelta: 2}, ByteLen: 1}
	par := &types.Node{Kind: types.KindPar, ByteLen: 10, Children: []*types.Node{a, b}}

	touchA := func(n *types.Node) *types.Node {
		if n == a {
			return n.WithMeta(types.MetaSemanticCategory, "x")
		}
		return n
	}

	got := Visit(touchA, par)
	require.NotSame(t, par, got)
	assert.NotSame(t, a, got.Children[0])
	assert.Same(t, b, got.Children[1], "sibling untouched by the visitor must keep identity")
}
