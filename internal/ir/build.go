// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ir builds the persistent, position-indexed intermediate
// representation from a parsed concrete syntax tree, and answers
// "smallest node containing position P" queries against it.
// Implements: spec §4.1 (C1 Persistent IR & position index).
package ir

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// KindMapper classifies a tree-sitter grammar node type string into an IR
// NodeKind. The actual grammar productions for Rholang/MeTTa are out of
// scope (spec §1); a language adapter supplies this mapping at runtime
// once a grammar is wired in. Node types with no mapping become KindError,
// which is the harmless degenerate case (no symbols are extracted from
// Error nodes regardless of whether they reflect a real parse error or an
// unmapped grammar production).
type KindMapper func(sitterType string) (types.NodeKind, bool)

// Builder constructs IR trees from tree-sitter CSTs for one language.
type Builder struct {
	Kinds KindMapper
	// Literal reports whether a node's source text should be captured
	// verbatim into Node.Text (identifiers, string bodies, numeric/bool
	// literals). Structural nodes (Par, Send, …) leave Text empty.
	Literal func(kind types.NodeKind) bool
}

// NewBuilder constructs a Builder with the given grammar-node classifier.
func NewBuilder(kinds KindMapper, literal func(types.NodeKind) bool) *Builder {
	return &Builder{Kinds: kinds, Literal: literal}
}

// Build converts a tree-sitter CST into the IR sum type.
//
// Implements: spec §4.1 "parse_to_ir(cst, source_rope) → IR_root": a total
// function — malformed subtrees become Error nodes carrying the offending
// byte range rather than aborting the build (spec §4.1 Failure).
func (b *Builder) Build(root *sitter.Node, source []byte) *types.Node {
	if root == nil {
		return &types.Node{Kind: types.KindError}
	}
	return b.buildNode(root, source, types.Position{})
}

// buildNode builds the IR node for n, recording n's position relative to
// parentStart (the absolute position of n's parent, zero at the root).
func (b *Builder) buildNode(n *sitter.Node, source []byte, parentStart types.Position) *types.Node {
	start := sitterPosition(n.StartByte(), n.StartPoint())
	rel := types.RelativePosition{
		RowDelta:  start.Row - parentStart.Row,
		ByteDelta: start.Byte - parentStart.Byte,
	}
	if rel.RowDelta > 0 {
		rel.ColDelta = start.Column
	} else {
		rel.ColDelta = start.Column - parentStart.Column
	}

	end := sitterPosition(n.EndByte(), n.EndPoint())

	kind, recognized := types.KindError, false
	if n.IsError() || n.IsMissing() {
		recognized = false
	} else if b.Kinds != nil {
		kind, recognized = b.Kinds(n.Type())
	}
	if !recognized {
		kind = types.KindError
	}

	node := &types.Node{
		Kind:    kind,
		Rel:     rel,
		ByteLen: int(n.EndByte() - n.StartByte()),
		Rows:    end.Row - start.Row,
	}
	if node.Rows > 0 {
		node.LastCol = end.Column
	} else {
		node.LastCol = rel.ColDelta + node.ByteLen
	}

	if recognized && b.Literal != nil && b.Literal(kind) {
		node.Text = string(n.Content(source))
	}

	count := int(n.ChildCount())
	if count == 0 || !recognized {
		// Error/leaf nodes carry no further structure; downstream
		// components treat Error as opaque (spec §4.1 Failure).
		return node
	}

	children := make([]*types.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		children = append(children, b.buildNode(child, source, start))
	}
	node.Children = children
	return node
}

func sitterPosition(byteOffset uint32, point sitter.Point) types.Position {
	return types.Position{
		Row:    int(point.Row),
		Column: int(point.Column),
		Byte:   int(byteOffset),
	}
}
