// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ir

import (
	"sort"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// entry is one record in the position index: a node together with its
// reconstructed absolute span.
type entry struct {
	node *types.Node
	span types.Span
}

// PositionIndex is a per-document sorted mapping from absolute start
// position to the set of nodes starting there, answering "smallest node
// containing position P" queries (spec §3, §4.1). A query binary-searches
// the start key and then scans every entry starting at or before P, so its
// cost is linear in the number of those entries, not O(log n).
type PositionIndex struct {
	entries []entry // sorted by span.Start.Byte
}

// BuildPositionIndex performs the one-shot traversal computing every
// node's absolute position, per spec §4.1
// "compute_absolute_positions(root) → Map<NodeAddress, (Position, Position)>".
func BuildPositionIndex(root *types.Node) *PositionIndex {
	idx := &PositionIndex{}
	if root != nil {
		idx.walk(root, types.Position{})
		sort.Slice(idx.entries, func(i, j int) bool {
			return idx.entries[i].span.Start.Byte < idx.entries[j].span.Start.Byte
		})
	}
	return idx
}

func (idx *PositionIndex) walk(n *types.Node, parentStart types.Position) {
	span := n.Span(parentStart)
	idx.entries = append(idx.entries, entry{node: n, span: span})
	for _, child := range n.Children {
		idx.walk(child, span.Start)
	}
}

// FindNodeAtPosition returns the smallest node whose span contains pos, or
// nil if pos lies outside the document.
//
// Implements: spec §8 property 1 and §4.1
// "find_node_at_position(root, pos) → Option<NodeHandle>": binary search on
// the key, tie-broken by smallest span.
func (idx *PositionIndex) FindNodeAtPosition(pos types.Position) *types.Node {
	if len(idx.entries) == 0 {
		return nil
	}

	// Find the last entry whose start is <= pos.Byte; candidates that
	// contain pos are among those starting at or before it.
	i := sort.Search(len(idx.entries), func(i int) bool {
		return idx.entries[i].span.Start.Byte > pos.Byte
	})

	// Every entry with a start at or before pos is a candidate ancestor;
	// scan backward from the insertion point over all of them, keeping the
	// smallest span that actually contains pos. The scan never stops early,
	// so the number of entries before pos (not tree depth) bounds its cost.
	var best *entry
	for j := i - 1; j >= 0; j-- {
		e := &idx.entries[j]
		if !e.span.Contains(pos) {
			continue
		}
		if best == nil || e.span.Size() < best.span.Size() {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.node
}

// AddressRange is the (start, end) absolute position pair recovered for a
// node already in hand, computed once per document (spec §3 "Position
// index" — ancillary address→(start,end) table for O(1) recovery).
type AddressRange struct {
	Start types.Position
	End   types.Position
}

// AbsolutePositions returns a map from node pointer identity to its
// reconstructed (start, end) range, built in the same traversal as the
// index itself so downstream components needing many position queries
// (e.g. semantic tokens) pay the walk once.
func (idx *PositionIndex) AbsolutePositions() map[*types.Node]AddressRange {
	out := make(map[*types.Node]AddressRange, len(idx.entries))
	for _, e := range idx.entries {
		out[e.node] = AddressRange{Start: e.span.Start, End: e.span.End()}
	}
	return out
}
