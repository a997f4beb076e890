// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/internal/docextract"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// buildGreetContract builds the IR for spec's S3 scenario:
//
//	/// Greet the world
//	contract greet() = { Nil }
//
// Row 0 is the doc comment (filtered out of the IR); row 1 holds the
// contract, whose reconstructed start byte overlaps the comment's byte
// range, which is exactly why adjacency must be row-based.
func buildGreetContract() (*types.Node, []docextract.Comment) {
	body := &types.Node{Kind: types.KindNil, Rel: types.RelativePosition{RowDelta: 0, ColDelta: 16}, ByteLen: 3}
	contract := &types.Node{
		Kind:     types.KindContract,
		Rel:      types.RelativePosition{RowDelta: 1, ColDelta: 0},
		ByteLen:  26,
		Text:     "greet",
		Children: []*types.Node{body},
	}
	comments := []docextract.Comment{
		{
			Start: types.Position{Row: 0, Column: 0, Byte: 0},
			End:   types.Position{Row: 0, Column: 19, Byte: 19},
			Kind:  docextract.DocLine,
			Text:  "Greet the world",
		},
	}
	return contract, comments
}

func TestBuildAttachesAdjacentDocToDeclaration(t *testing.T) {
	root, comments := buildGreetContract()
	doc := Build("file:///greet.rho", root, comments)

	syms := doc.Table.ByName("greet")
	require.Len(t, syms, 1)
	assert.Equal(t, "Greet the world", syms[0].Documentation)
}

func TestBuildDoesNotAttachDocAtWrongRow(t *testing.T) {
	// A declaration three rows below a doc comment must not receive it.
	contract := &types.Node{
		Kind: types.KindContract,
		Rel:  types.RelativePosition{RowDelta: 3},
		Text: "greet",
	}
	comments := []docextract.Comment{
		{Start: types.Position{Row: 0}, End: types.Position{Row: 0}, Kind: docextract.DocLine, Text: "orphaned"},
	}
	doc := Build("file:///greet.rho", contract, comments)

	syms := doc.Table.ByName("greet")
	require.Len(t, syms, 1)
	assert.Empty(t, syms[0].Documentation)
}

func TestBuildResolvesReferenceToEnclosingBinding(t *testing.T) {
	// new x in { x }
	varRef := &types.Node{Kind: types.KindVar, Rel: types.RelativePosition{ByteDelta: 12}, Text: "x"}
	nameDecl := &types.Node{Kind: types.KindNameDecl, Rel: types.RelativePosition{ByteDelta: 4}, Text: "x"}
	root := &types.Node{
		Kind:     types.KindNew,
		Children: []*types.Node{nameDecl, varRef},
	}

	doc := Build("file:///scope.rho", root, nil)

	syms := doc.Table.ByName("x")
	require.Len(t, syms, 1)
	assert.Len(t, syms[0].References, 1, "the Var reference inside the New's body must resolve to the NameDecl binding")
}

func TestBuildLeavesUnresolvedReferenceUnlinked(t *testing.T) {
	varRef := &types.Node{Kind: types.KindVar, Text: "undeclared"}
	doc := Build("file:///scope.rho", varRef, nil)

	assert.Empty(t, doc.Table.ByName("undeclared"), "an unresolved reference introduces no declaration")
}

func TestAttachPreservesSharingForNodesWithNoMetadata(t *testing.T) {
	root, comments := buildGreetContract()
	untouchedSibling := root.Children[0]

	doc := Build("file:///greet.rho", root, comments)
	newRoot := doc.Attach(root)

	require.NotSame(t, root, newRoot, "root must be rebuilt: the contract symbol and its doc were recorded on it")
	assert.Same(t, untouchedSibling, newRoot.Children[0], "a child with no discovered metadata keeps its identity")

	rootScope, ok := newRoot.Meta.ScopeID()
	require.True(t, ok)
	assert.GreaterOrEqual(t, rootScope, 0)
}
