// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package patternindex canonicalizes contract formals and call-site
// arguments into a small token alphabet and matches them in specificity
// order, so a call site can be resolved to the overload it actually binds.
// Implements: spec §4.4 (C4 Pattern index).
package patternindex

import (
	"fmt"
	"strings"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// TokenKind is one of the canonical alphabet members from spec §4.4:
// ground literals, structural collections, binder, wildcard, and typed.
type TokenKind int

const (
	TokGroundStr TokenKind = iota
	TokGroundNum
	TokGroundBool
	TokGroundOther // Nil, Unit, Uri — ground but not string/number/bool
	TokBinder      // VarBind: "?"
	TokWildcard    // "_"
	TokTyped       // ":Type"
	TokList
	TokSet
	TokMap
	TokTuple
)

// Token is one canonicalized pattern or argument position. Structural
// kinds (List/Set/Map/Tuple) carry their elements in Children; every other
// kind is a leaf.
type Token struct {
	Kind     TokenKind
	Text     string // ground literal text, or the type name for TokTyped
	Children []Token
}

// generality reports how much looser a token, by itself (not counting
// children), is than an exact ground match: 0 for ground, up to 3 for a
// wildcard.
func (t Token) generality() int {
	switch t.Kind {
	case TokWildcard:
		return 3
	case TokBinder:
		return 2
	case TokTyped:
		return 1
	default:
		return 0
	}
}

// Generality returns the overall looseness of t and everything nested
// inside it: the spec §4.4 specificity order ("all-literal < typed-any <
// variable-any < wildcard-any") is driven by the loosest token appearing
// anywhere in the pattern, since a single wildcard anywhere makes the
// whole formal list match strictly more call sites.
func Generality(t Token) int {
	g := t.generality()
	for _, c := range t.Children {
		if cg := Generality(c); cg > g {
			g = cg
		}
	}
	return g
}

// Canonicalize converts a single pattern/argument IR node into its
// canonical Token, per spec §4.4's alphabet.
func Canonicalize(n *types.Node) Token {
	if n == nil {
		return Token{Kind: TokWildcard, Text: "_"}
	}
	switch n.Kind {
	case types.KindString:
		return Token{Kind: TokGroundStr, Text: n.Text}
	case types.KindLong:
		return Token{Kind: TokGroundNum, Text: n.Text}
	case types.KindBool:
		return Token{Kind: TokGroundBool, Text: n.Text}
	case types.KindNil:
		return Token{Kind: TokGroundOther, Text: "Nil"}
	case types.KindUnit:
		return Token{Kind: TokGroundOther, Text: "Unit"}
	case types.KindURI:
		return Token{Kind: TokGroundOther, Text: n.Text}
	case types.KindWildcard:
		return Token{Kind: TokWildcard, Text: "_"}
	case types.KindVar:
		return Token{Kind: TokBinder, Text: "?"}
	case types.KindConjunction:
		if typ, ok := typedConjunction(n); ok {
			return Token{Kind: TokTyped, Text: typ}
		}
		return Token{Kind: TokGroundOther, Text: "Conjunction", Children: canonicalizeAll(n.Children)}
	case types.KindList:
		return Token{Kind: TokList, Children: canonicalizeAll(n.Children)}
	case types.KindSet:
		return Token{Kind: TokSet, Children: canonicalizeAll(n.Children)}
	case types.KindMap:
		return Token{Kind: TokMap, Children: canonicalizeAll(n.Children)}
	case types.KindTuple:
		return Token{Kind: TokTuple, Children: canonicalizeAll(n.Children)}
	default:
		// Anything else encountered in argument position (Quote, Eval,
		// a nested Send, ...) is treated as an opaque ground literal
		// keyed by its own text/kind — a structural mismatch against it
		// simply never matches, which is the safe default.
		text := n.Text
		if text == "" {
			text = n.Kind.String()
		}
		return Token{Kind: TokGroundOther, Text: text}
	}
}

func canonicalizeAll(nodes []*types.Node) []Token {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Token, len(nodes))
	for i, n := range nodes {
		out[i] = Canonicalize(n)
	}
	return out
}

// typedConjunction recognizes the `x /\ T` shape (spec §9 open question
// "typed-pattern tokens") — a Conjunction of a Var and a SimpleType —
// collapsing it to a single Typed(T) token. Any other conjunction shape
// falls through to the generic structural case.
func typedConjunction(n *types.Node) (string, bool) {
	if len(n.Children) != 2 {
		return "", false
	}
	a, b := n.Children[0], n.Children[1]
	if a.Kind == types.KindVar && b.Kind == types.KindSimpleType {
		return b.Text, true
	}
	if b.Kind == types.KindVar && a.Kind == types.KindSimpleType {
		return a.Text, true
	}
	return "", false
}

// InferType returns the best-effort runtime type name of an argument
// token, used to satisfy a Typed(T) pattern position. Full type inference
// is out of scope (spec §4.4 "see design notes on type extraction"); this
// classifies by the argument's own canonical shape only, which resolves
// the common case (a ground literal or collection argument matched
// against a simple declared type) without a type-checker.
func InferType(t Token) (string, bool) {
	switch t.Kind {
	case TokGroundStr:
		return "String", true
	case TokGroundNum:
		return "Int", true
	case TokGroundBool:
		return "Bool", true
	case TokGroundOther:
		return t.Text, true
	case TokList:
		return "List", true
	case TokSet:
		return "Set", true
	case TokMap:
		return "Map", true
	case TokTuple:
		return "Tuple", true
	default:
		// Binder, Wildcard, Typed: the argument's own runtime type isn't
		// known from shape alone.
		return "", false
	}
}

// Serialize renders t as the canonical byte sequence used for display. The
// Trie does not key on it; it buckets declarations by arity.
func Serialize(t Token) string {
	var b strings.Builder
	serialize(&b, t)
	return b.String()
}

func serialize(b *strings.Builder, t Token) {
	switch t.Kind {
	case TokGroundStr:
		fmt.Fprintf(b, "Str %q", t.Text)
	case TokGroundNum:
		fmt.Fprintf(b, "Num %s", t.Text)
	case TokGroundBool:
		fmt.Fprintf(b, "Bool %s", t.Text)
	case TokGroundOther:
		b.WriteString(t.Text)
	case TokBinder:
		b.WriteString("?")
	case TokWildcard:
		b.WriteString("_")
	case TokTyped:
		b.WriteString(":")
		b.WriteString(t.Text)
	case TokList, TokSet, TokMap, TokTuple:
		open, close := brackets(t.Kind)
		b.WriteString(open)
		for i, c := range t.Children {
			if i > 0 {
				b.WriteString(",")
			}
			serialize(b, c)
		}
		b.WriteString(close)
	}
}

func brackets(k TokenKind) (string, string) {
	switch k {
	case TokList:
		return "[", "]"
	case TokSet:
		return "{", "}"
	case TokMap:
		return "{", "}"
	default: // TokTuple
		return "(", ")"
	}
}
