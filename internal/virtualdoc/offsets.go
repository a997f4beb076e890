// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package virtualdoc extracts embedded-language regions (e.g. a MeTTa
// snippet quoted inside a Rholang string literal) out of a parent document
// into their own independently-indexed VirtualDocuments.
// Implements: spec §4.7 (C7 Virtual documents).
package virtualdoc

import (
	"sort"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// OffsetEntry maps one contiguous run of bytes in the parent document to
// the corresponding run in the extracted virtual content. Runs are allowed
// to differ in length: dedenting and quote-stripping shrink the virtual
// side relative to the parent.
type OffsetEntry struct {
	ParentStart  int
	ParentEnd    int
	VirtualStart int
	VirtualEnd   int
}

// OffsetTable is a sorted (by ParentStart) run list supporting O(log n)
// bidirectional position mapping, grounded on matcher.go's byteOffsetOfLine
// line-accounting idiom generalized from line indices to explicit byte runs.
type OffsetTable struct {
	entries []OffsetEntry
}

// NewOffsetTable builds a table from entries, sorting them by ParentStart.
func NewOffsetTable(entries []OffsetEntry) *OffsetTable {
	sorted := make([]OffsetEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ParentStart < sorted[j].ParentStart })
	return &OffsetTable{entries: sorted}
}

// MapIntoVirtual maps a parent-document byte offset into the corresponding
// virtual-document byte offset, if parentByte falls within any mapped run.
func (t *OffsetTable) MapIntoVirtual(parentByte int) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ParentEnd > parentByte })
	if i >= len(t.entries) {
		return 0, false
	}
	e := t.entries[i]
	if parentByte < e.ParentStart || parentByte >= e.ParentEnd {
		return 0, false
	}
	return e.VirtualStart + (parentByte - e.ParentStart), true
}

// MapToParent maps a virtual-document byte offset back to the parent
// document's byte offset.
func (t *OffsetTable) MapToParent(virtualByte int) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].VirtualEnd > virtualByte })
	if i >= len(t.entries) {
		return 0, false
	}
	e := t.entries[i]
	if virtualByte < e.VirtualStart || virtualByte >= e.VirtualEnd {
		return 0, false
	}
	return e.ParentStart + (virtualByte - e.VirtualStart), true
}

// MapIntoVirtualPos maps a parent Position's byte offset into the virtual
// document's byte offset. Row and Column are not mapped (the virtual
// document re-scans its own content for line/column accounting; only the
// byte offset is authoritative across the boundary).
func MapIntoVirtualPos(t *OffsetTable, parent types.Position) (int, bool) {
	return t.MapIntoVirtual(parent.Byte)
}
