// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package docextract collects comment tokens into the comment channel, a
// parallel ordered sequence kept outside the IR (spec §4.11, §9 "Comments
// are NOT IR nodes"). Package symbols consumes the channel to attach
// documentation to declarations (spec §4.3).
package docextract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// CommentKind classifies a comment token for doc-attachment purposes.
type CommentKind int

const (
	Line CommentKind = iota
	Block
	DocLine
	DocBlock
)

// Comment is one entry in the comment channel: spec §4.11
// "(absolute_start, absolute_end, kind, text)".
type Comment struct {
	Start types.Position
	End   types.Position
	Kind  CommentKind
	// Text is the stripped body, with comment markers and leading
	// whitespace removed (spec §4.3 "Strip comment markers and leading
	// whitespace from the stored text").
	Text string
}

// IsDoc reports whether c is eligible for attachment to a declaration
// (spec §4.3: only `///` line or `/** ... */` block comments qualify).
func (c Comment) IsDoc() bool {
	return c.Kind == DocLine || c.Kind == DocBlock
}

// CommentTypeChecker reports whether a tree-sitter node type string denotes
// a comment token. The grammar's exact type name is language-supplied since
// grammar productions are out of scope (spec §1).
type CommentTypeChecker func(sitterType string) bool

// Extract walks the CST collecting every comment token into an
// ascending-by-Start comment channel.
//
// Implements: spec §4.11 "during parse, collect comment tokens into the
// comment channel".
func Extract(root *sitter.Node, source []byte, isComment CommentTypeChecker) []Comment {
	var out []Comment
	if root == nil || isComment == nil {
		return out
	}
	walk(root, source, isComment, &out)
	return out
}

func walk(n *sitter.Node, source []byte, isComment CommentTypeChecker, out *[]Comment) {
	if isComment(n.Type()) {
		raw := string(n.Content(source))
		kind, text := classify(raw)
		*out = append(*out, Comment{
			Start: position(n.StartByte(), n.StartPoint()),
			End:   position(n.EndByte(), n.EndPoint()),
			Kind:  kind,
			Text:  text,
		})
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if c := n.Child(i); c != nil {
			walk(c, source, isComment, out)
		}
	}
}

func position(byteOffset uint32, point sitter.Point) types.Position {
	return types.Position{Row: int(point.Row), Column: int(point.Column), Byte: int(byteOffset)}
}

// classify determines a comment's kind and strips its markers and leading
// whitespace, per spec §4.3.
func classify(raw string) (CommentKind, string) {
	switch {
	case strings.HasPrefix(raw, "///"):
		return DocLine, strings.TrimSpace(strings.TrimPrefix(raw, "///"))
	case strings.HasPrefix(raw, "//"):
		return Line, strings.TrimSpace(strings.TrimPrefix(raw, "//"))
	case strings.HasPrefix(raw, "/**") && strings.HasSuffix(raw, "*/"):
		body := strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")
		return DocBlock, stripBlockBody(body)
	case strings.HasPrefix(raw, "/*") && strings.HasSuffix(raw, "*/"):
		body := strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
		return Block, stripBlockBody(body)
	default:
		return Line, strings.TrimSpace(raw)
	}
}

// stripBlockBody trims each line of a block comment's body, dropping a
// leading "*" continuation marker as conventionally written.
func stripBlockBody(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Channel is a comment channel queryable by "nearest preceding comment
// ending no more than one line before a given row" (spec §4.3's row-based
// adjacency rule — byte-based comparison is unsound because a filtered
// comment's byte range overlaps its successor IR node).
type Channel struct {
	comments []Comment // ascending by Start
}

// NewChannel wraps an extracted comment slice for adjacency queries.
func NewChannel(comments []Comment) *Channel {
	return &Channel{comments: comments}
}

// NearestDocBefore returns the nearest doc-comment ending on declRow or
// declRow-1, or (Comment{}, false) if none qualifies.
//
// Implements: spec §4.3 "find the nearest preceding comment in the
// channel, and if the comment is a doc-comment ... and the comment ends no
// more than one line before the declaration (row-based comparison)".
func (c *Channel) NearestDocBefore(declRow int) (Comment, bool) {
	var nearest *Comment
	for i := range c.comments {
		cm := &c.comments[i]
		if cm.End.Row > declRow {
			break
		}
		nearest = cm
	}
	if nearest == nil || !nearest.IsDoc() {
		return Comment{}, false
	}
	if declRow-nearest.End.Row > 1 {
		return Comment{}, false
	}
	return *nearest, true
}
