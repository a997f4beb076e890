// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package query

import (
	"strings"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// knownURISchemes recognizes a string literal as URI-valued for the
// StringLiteralUri completion context (spec §4.9's context table).
var knownURISchemes = []string{"rho:", "http://", "https://"}

// ClassifyContext determines the completion context at pos by walking from
// root down to the innermost node containing it, tracking the ancestor
// chain along the way — the same span-containment descent the position
// index uses for FindNodeAtPosition, extended to remember the path so
// collection/pattern ancestry can be inspected (spec §4.9). The walk does
// not use the position index: at each level it scans the children in order
// until one contains pos, so its cost is the sum of the sibling counts
// along the path, not O(log n).
func ClassifyContext(root *types.Node, pos types.Position, prefix string) types.CompletionContext {
	if root == nil {
		return types.CompletionContext{Kind: types.ContextUnknown, Prefix: prefix}
	}

	path := descend(root, types.Position{}, pos)
	if len(path) == 0 {
		return types.CompletionContext{Kind: types.ContextUnknown, Prefix: prefix}
	}

	innermost := path[len(path)-1].node

	switch innermost.Kind {
	case types.KindMethod:
		receiver := ""
		if len(innermost.Children) > 0 {
			receiver = inferReceiverType(innermost.Children[0])
		}
		return types.CompletionContext{Kind: types.ContextTypeMethod, Receiver: receiver, Prefix: prefix}

	case types.KindString:
		if isURILiteral(innermost.Text) {
			return types.CompletionContext{Kind: types.ContextStringLiteralURI, Prefix: prefix}
		}

	case types.KindNameDecl, types.KindDecl, types.KindLinearBind, types.KindRepeatedBind, types.KindPeekBind:
		return types.CompletionContext{Kind: types.ContextPattern, Prefix: prefix}
	}

	if kind, ok := quotedCollectionContext(path); ok {
		return types.CompletionContext{Kind: kind, Prefix: prefix}
	}

	if insidePatternPosition(path) {
		return types.CompletionContext{Kind: types.ContextPattern, Prefix: prefix}
	}

	if len(path) == 1 {
		return types.CompletionContext{Kind: types.ContextExpression, Prefix: prefix}
	}
	return types.CompletionContext{Kind: types.ContextLexicalScope, Prefix: prefix}
}

type pathNode struct {
	node *types.Node
	span types.Span
}

// descend walks the containment chain from root to the smallest node whose
// span holds pos, returning every node visited along the way (root first).
func descend(n *types.Node, parentStart types.Position, pos types.Position) []pathNode {
	span := n.Span(parentStart)
	if !span.Contains(pos) {
		return nil
	}
	path := []pathNode{{node: n, span: span}}
	for _, child := range n.Children {
		if rest := descend(child, span.Start, pos); rest != nil {
			path = append(path, rest...)
			break
		}
	}
	return path
}

// quotedCollectionContext reports whether the nearest collection ancestor
// in path is itself inside a pattern position (a Match arm, a Contract's
// formals, or a bind source) — the "quoted collection pattern" contexts.
func quotedCollectionContext(path []pathNode) (types.CompletionContextKind, bool) {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i].node.Kind {
		case types.KindList:
			return types.ContextQuotedList, insidePatternPosition(path[:i+1])
		case types.KindSet:
			return types.ContextQuotedSet, insidePatternPosition(path[:i+1])
		case types.KindMap:
			return types.ContextQuotedMap, insidePatternPosition(path[:i+1])
		case types.KindTuple:
			return types.ContextQuotedTuple, insidePatternPosition(path[:i+1])
		}
	}
	return types.ContextUnknown, false
}

// insidePatternPosition reports whether any ancestor in path introduces a
// binder/pattern position (Contract formals, Match arms, receive sources).
func insidePatternPosition(path []pathNode) bool {
	for _, p := range path {
		switch p.node.Kind {
		case types.KindContract, types.KindMatch, types.KindInput,
			types.KindReceiveSendSource, types.KindSendReceiveSource:
			return true
		}
	}
	return false
}

func isURILiteral(text string) bool {
	body := strings.Trim(text, `"`)
	for _, scheme := range knownURISchemes {
		if strings.HasPrefix(body, scheme) {
			return true
		}
	}
	return false
}

// inferReceiverType maps a receiver node's own kind to one of the builtin
// container type names a TypeMethod completion would suggest methods for.
func inferReceiverType(n *types.Node) string {
	switch n.Kind {
	case types.KindList:
		return "List"
	case types.KindSet:
		return "Set"
	case types.KindMap:
		return "Map"
	case types.KindString:
		return "String"
	default:
		return ""
	}
}
