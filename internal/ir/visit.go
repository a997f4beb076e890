// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ir

import "github.com/f1r3fly-io/rholang-language-server/pkg/types"

// Visitor may replace a node during a Visit walk. Returning the same
// pointer it was given means "no change"; returning any other pointer
// (including one built fresh from the original's fields) means "replace".
//
// Implements: spec §4.1 "visit(visitor, node)" — the only mutation
// primitive; children changed by the visitor propagate a fresh allocation
// up to the root, unchanged children are shared by reference with the
// predecessor tree (spec §3 invariant ii, §9 "Structural sharing").
type Visitor func(n *types.Node) *types.Node

// Visit walks node depth-first, applying visitor post-order (children
// before parent) so a parent rebuild sees each child's final replacement.
// visitor is called exactly once per node: with a fresh copy carrying the
// new children when any child changed, or with the original node itself
// when every child is identical (by pointer) to its original — which still
// gives the visitor a chance to transform parents when no descendant
// changed.
func Visit(visitor Visitor, node *types.Node) *types.Node {
	if node == nil {
		return nil
	}

	changed := false
	var newChildren []*types.Node
	if len(node.Children) > 0 {
		newChildren = make([]*types.Node, len(node.Children))
		for i, child := range node.Children {
			replaced := Visit(visitor, child)
			newChildren[i] = replaced
			if replaced != child {
				changed = true
			}
		}
	}

	var candidate *types.Node
	if changed {
		candidate = &types.Node{
			Kind:     node.Kind,
			Rel:      node.Rel,
			ByteLen:  node.ByteLen,
			Rows:     node.Rows,
			LastCol:  node.LastCol,
			Children: newChildren,
			Text:     node.Text,
			Meta:     node.Meta.Clone(),
		}
	} else {
		candidate = node
	}

	return visitor(candidate)
}

// Identity is a Visitor that never replaces a node; Visit(Identity, root)
// returns root unchanged (used in tests to assert the sharing guarantee
// holds for a no-op pass).
func Identity(n *types.Node) *types.Node { return n }
