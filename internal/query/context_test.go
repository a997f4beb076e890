// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

func TestClassifyContextMethodReceiver(t *testing.T) {
	// someList.length()
	list := &types.Node{Kind: types.KindList, ByteLen: 8}
	method := &types.Node{
		Kind:     types.KindMethod,
		ByteLen:  18,
		Children: []*types.Node{list},
	}
	ctx := ClassifyContext(method, types.Position{Byte: 10}, "len")
	assert.Equal(t, types.ContextTypeMethod, ctx.Kind)
	assert.Equal(t, "List", ctx.Receiver)
}

func TestClassifyContextStringLiteralURI(t *testing.T) {
	str := &types.Node{Kind: types.KindString, ByteLen: 14, Text: `"rho:io:stdout"`}
	ctx := ClassifyContext(str, types.Position{Byte: 5}, "")
	assert.Equal(t, types.ContextStringLiteralURI, ctx.Kind)
}

func TestClassifyContextPatternBinder(t *testing.T) {
	decl := &types.Node{Kind: types.KindNameDecl, ByteLen: 1, Text: "x"}
	ctx := ClassifyContext(decl, types.Position{Byte: 0}, "")
	assert.Equal(t, types.ContextPattern, ctx.Kind)
}

func TestClassifyContextQuotedListInsidePattern(t *testing.T) {
	// contract foo(@[a, b]) = { Nil }: the list literal sits inside the
	// contract's formal pattern position.
	inner := &types.Node{Kind: types.KindVar, ByteLen: 1, Text: "a"}
	list := &types.Node{Kind: types.KindList, ByteLen: 6, Children: []*types.Node{inner}}
	contract := &types.Node{Kind: types.KindContract, ByteLen: 20, Children: []*types.Node{list}}

	ctx := ClassifyContext(contract, types.Position{Byte: 1}, "")
	assert.Equal(t, types.ContextQuotedList, ctx.Kind)
}

func TestClassifyContextQuotedListOutsidePatternFallsToLexicalScope(t *testing.T) {
	// A list literal in an ordinary send argument isn't a quoted pattern;
	// quotedCollectionContext only fires when it sits in a binder position.
	inner := &types.Node{Kind: types.KindVar, ByteLen: 1, Text: "a"}
	list := &types.Node{Kind: types.KindList, ByteLen: 6, Children: []*types.Node{inner}}
	send := &types.Node{Kind: types.KindSend, ByteLen: 20, Children: []*types.Node{list}}

	ctx := ClassifyContext(send, types.Position{Byte: 1}, "")
	assert.Equal(t, types.ContextLexicalScope, ctx.Kind)
}

func TestClassifyContextTopLevelExpression(t *testing.T) {
	nilNode := &types.Node{Kind: types.KindNil, ByteLen: 3}
	ctx := ClassifyContext(nilNode, types.Position{Byte: 0}, "")
	assert.Equal(t, types.ContextExpression, ctx.Kind)
}

func TestClassifyContextOutOfRangeIsUnknown(t *testing.T) {
	nilNode := &types.Node{Kind: types.KindNil, ByteLen: 3}
	ctx := ClassifyContext(nilNode, types.Position{Byte: 99}, "")
	assert.Equal(t, types.ContextUnknown, ctx.Kind)
}

func TestClassifyContextNilRoot(t *testing.T) {
	ctx := ClassifyContext(nil, types.Position{}, "x")
	assert.Equal(t, types.ContextUnknown, ctx.Kind)
	assert.Equal(t, "x", ctx.Prefix)
}
