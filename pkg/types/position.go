// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the shared data model for the analysis core:
// positions, IR nodes, symbols, diagnostics, and completion metadata.
// Implements: spec §3 (Data model).
package types

import "fmt"

// Position identifies a location in a document with three synchronized
// coordinates: Row/Column for LSP interop, Byte for text indexing.
type Position struct {
	Row    int // 0-based line
	Column int // 0-based UTF-8 byte column within the line
	Byte   int // 0-based absolute byte offset in the document
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d(@%d)", p.Row, p.Column, p.Byte)
}

// Less reports whether p sorts before o, ordered by byte offset. Byte
// offset is the single authoritative ordering key; Row/Column are kept in
// sync with it but never consulted for ordering.
func (p Position) Less(o Position) bool {
	return p.Byte < o.Byte
}

// RelativePosition is a node's start position expressed as deltas from its
// parent's start. It is an invariant of every IR node (spec §3).
type RelativePosition struct {
	RowDelta  int
	ColDelta  int
	ByteDelta int
}

// Add applies the delta to an absolute base position, producing the
// absolute position of the child the delta describes.
//
// Implements: spec §4.1 "span/position reconstruction" — newline handling:
// when RowDelta > 0 the column resets to ColDelta, otherwise columns
// accumulate.
func (d RelativePosition) Add(base Position) Position {
	pos := Position{Byte: base.Byte + d.ByteDelta}
	if d.RowDelta > 0 {
		pos.Row = base.Row + d.RowDelta
		pos.Column = d.ColDelta
	} else {
		pos.Row = base.Row
		pos.Column = base.Column + d.ColDelta
	}
	return pos
}

// Span describes the absolute extent of a node once its position has been
// reconstructed.
type Span struct {
	Start   Position
	Length  int // byte length
	Rows    int // number of newlines spanned
	LastCol int // column of the span's end position
}

// End returns the absolute end position of the span.
func (s Span) End() Position {
	if s.Rows > 0 {
		return Position{
			Row:    s.Start.Row + s.Rows,
			Column: s.LastCol,
			Byte:   s.Start.Byte + s.Length,
		}
	}
	return Position{
		Row:    s.Start.Row,
		Column: s.Start.Column + s.Length,
		Byte:   s.Start.Byte + s.Length,
	}
}

// Contains reports whether the span covers position p (half-open: the end
// byte itself is excluded so two adjacent spans do not both claim it).
func (s Span) Contains(p Position) bool {
	end := s.End()
	return !p.Less(s.Start) && p.Byte < end.Byte
}

// Size returns the span's byte length, used to tie-break overlapping spans
// in favor of the smallest covering node (spec §3 "Position index").
func (s Span) Size() int {
	return s.Length
}
