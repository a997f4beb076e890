// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patternindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

func strLit(s string) *types.Node  { return &types.Node{Kind: types.KindString, Text: s} }
func numLit(s string) *types.Node  { return &types.Node{Kind: types.KindLong, Text: s} }
func varBind(name string) *types.Node { return &types.Node{Kind: types.KindVar, Text: name} }
func wildcard() *types.Node        { return &types.Node{Kind: types.KindWildcard} }

func TestQueryPrefersMoreSpecificOverload(t *testing.T) {
	idx := New()
	idx.Insert("process", 1, types.Location{URI: "a.rho", Pos: types.Position{Row: 0}}, []*types.Node{strLit("start"), strLit("go")})
	idx.Insert("process", 2, types.Location{URI: "a.rho", Pos: types.Position{Row: 1}}, []*types.Node{varBind("x"), varBind("y")})

	matches := idx.Query("process", []*types.Node{strLit("start"), strLit("go")})
	require.Len(t, matches, 2, "both overloads structurally accept this call")
	assert.Equal(t, types.SymbolID(1), matches[0].Symbol, "the all-literal overload must rank before the variable-any one")
	assert.Equal(t, types.SymbolID(2), matches[1].Symbol)
}

func TestQueryExcludesArityMismatch(t *testing.T) {
	idx := New()
	idx.Insert("process", 1, types.Location{URI: "a.rho"}, []*types.Node{varBind("x")})

	matches := idx.Query("process", []*types.Node{strLit("a"), strLit("b")})
	assert.Empty(t, matches)
}

func TestQueryRejectsLiteralMismatch(t *testing.T) {
	idx := New()
	idx.Insert("process", 1, types.Location{URI: "a.rho"}, []*types.Node{strLit("start")})

	matches := idx.Query("process", []*types.Node{strLit("stop")})
	assert.Empty(t, matches)
}

func TestWildcardMatchesAnyArgument(t *testing.T) {
	idx := New()
	idx.Insert("process", 1, types.Location{URI: "a.rho"}, []*types.Node{wildcard()})

	matches := idx.Query("process", []*types.Node{strLit("anything")})
	assert.Len(t, matches, 1)
}

func TestRemoveDropsOnlyThatURIsDeclarations(t *testing.T) {
	idx := New()
	idx.Insert("process", 1, types.Location{URI: "a.rho"}, []*types.Node{strLit("start")})
	idx.Insert("process", 2, types.Location{URI: "b.rho"}, []*types.Node{strLit("start")})

	n := idx.Remove("a.rho")
	assert.Equal(t, 1, n)

	matches := idx.Query("process", []*types.Node{strLit("start")})
	require.Len(t, matches, 1)
	assert.Equal(t, types.SymbolID(2), matches[0].Symbol)
}

func TestMatchRecursesIntoStructuralArguments(t *testing.T) {
	pattern := Canonicalize(&types.Node{Kind: types.KindList, Children: []*types.Node{varBind("x"), strLit("tail")}})
	argOK := Canonicalize(&types.Node{Kind: types.KindList, Children: []*types.Node{numLit("1"), strLit("tail")}})
	argBad := Canonicalize(&types.Node{Kind: types.KindList, Children: []*types.Node{numLit("1"), strLit("nope")}})

	assert.True(t, Match(pattern, argOK))
	assert.False(t, Match(pattern, argBad))
}

func TestSerializeRoundTripsStructure(t *testing.T) {
	tok := Canonicalize(&types.Node{Kind: types.KindTuple, Children: []*types.Node{strLit("a"), wildcard()}})
	assert.Equal(t, `(Str "a",_)`, Serialize(tok))
}
