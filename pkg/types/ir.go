// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// NodeKind is the closed sum type over all Rholang (and embedded-language
// host) language constructs. Implements: spec §3 "IR nodes".
type NodeKind int

const (
	KindPar NodeKind = iota
	KindSend
	KindSendSync
	KindNew
	KindInput
	KindContract
	KindIfElse
	KindMatch
	KindLet
	KindBlock
	KindBinOp
	KindUnaryOp
	KindMethod
	KindEval
	KindQuote
	KindVarRef
	KindParenthesized
	KindVar
	KindWildcard
	KindSimpleType
	KindComment
	KindError

	// Literals.
	KindBool
	KindLong
	KindString
	KindURI
	KindNil
	KindUnit

	// Collections.
	KindList
	KindSet
	KindMap
	KindTuple

	// Binders.
	KindNameDecl
	KindDecl
	KindLinearBind
	KindRepeatedBind
	KindPeekBind
	KindReceiveSendSource
	KindSendReceiveSource

	// Pattern combinators.
	KindDisjunction
	KindConjunction
	KindNegation
)

var nodeKindNames = map[NodeKind]string{
	KindPar: "Par", KindSend: "Send", KindSendSync: "SendSync", KindNew: "New",
	KindInput: "Input", KindContract: "Contract", KindIfElse: "IfElse",
	KindMatch: "Match", KindLet: "Let", KindBlock: "Block", KindBinOp: "BinOp",
	KindUnaryOp: "UnaryOp", KindMethod: "Method", KindEval: "Eval",
	KindQuote: "Quote", KindVarRef: "VarRef", KindParenthesized: "Parenthesized",
	KindVar: "Var", KindWildcard: "Wildcard", KindSimpleType: "SimpleType",
	KindComment: "Comment", KindError: "Error", KindBool: "Bool",
	KindLong: "Long", KindString: "String", KindURI: "Uri", KindNil: "Nil",
	KindUnit: "Unit", KindList: "List", KindSet: "Set", KindMap: "Map",
	KindTuple: "Tuple", KindNameDecl: "NameDecl", KindDecl: "Decl",
	KindLinearBind: "LinearBind", KindRepeatedBind: "RepeatedBind",
	KindPeekBind: "PeekBind", KindReceiveSendSource: "ReceiveSendSource",
	KindSendReceiveSource: "SendReceiveSource", KindDisjunction: "Disjunction",
	KindConjunction: "Conjunction", KindNegation: "Negation",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ScopeOpening reports whether a node of this kind opens a new lexical
// scope (spec §4.3 scoping rules).
func (k NodeKind) ScopeOpening() bool {
	switch k {
	case KindNew, KindLet, KindContract, KindInput, KindMatch, KindBlock:
		return true
	default:
		return false
	}
}

// MetadataKey names the small closed set of known metadata variants a node
// may carry (spec §9 "Heterogeneous metadata on nodes" — a stable closed
// enum is preferred here over arbitrary dynamic typing).
type MetadataKey string

const (
	MetaScopeID          MetadataKey = "scope_id"
	MetaSymbolRef        MetadataKey = "symbol_ref"
	MetaDocumentation    MetadataKey = "documentation"
	MetaSemanticCategory MetadataKey = "semantic_category"
)

// Metadata is a heterogeneous, string-keyed map of opaque node annotations,
// type-tagged at retrieval time via the Meta* accessor helpers.
type Metadata map[MetadataKey]any

// Clone returns a shallow copy of the metadata map, used when building a
// new node that shares all annotations of an unchanged predecessor.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ScopeID returns the scope id attached to the node, if any.
func (m Metadata) ScopeID() (int, bool) {
	v, ok := m[MetaScopeID]
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// Documentation returns the doc-comment text attached to the node, if any.
func (m Metadata) Documentation() (string, bool) {
	v, ok := m[MetaDocumentation]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SymbolRef returns the symbol id a reference or declaration node resolves
// to, if any.
func (m Metadata) SymbolRef() (SymbolID, bool) {
	v, ok := m[MetaSymbolRef]
	if !ok {
		return 0, false
	}
	id, ok := v.(SymbolID)
	return id, ok
}

// Node is an immutable IR node. Once constructed it is never mutated in
// place (spec §3 invariant i); transformations that change a child return a
// new Node with unchanged siblings shared by reference (invariant ii). A
// node's absolute position is a pure function of its ancestor chain
// (invariant iii) — Rel carries only the *relative* position.
type Node struct {
	Kind     NodeKind
	Rel      RelativePosition
	ByteLen  int
	Rows     int
	LastCol  int
	Children []*Node
	Text     string // literal/atomic payload (identifier name, string body, …)
	Meta     Metadata
}

// Span reconstructs this node's span given the absolute position of its
// parent's start (spec §4.1).
func (n *Node) Span(parentStart Position) Span {
	return Span{
		Start:   n.Rel.Add(parentStart),
		Length:  n.ByteLen,
		Rows:    n.Rows,
		LastCol: n.LastCol,
	}
}

// WithChild returns a new node identical to n except that the child at
// index i is replaced by repl. Unspecified children retain their existing
// pointer identity (structural sharing, spec §3 invariant ii).
func (n *Node) WithChild(i int, repl *Node) *Node {
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	children[i] = repl
	return &Node{
		Kind:     n.Kind,
		Rel:      n.Rel,
		ByteLen:  n.ByteLen,
		Rows:     n.Rows,
		LastCol:  n.LastCol,
		Children: children,
		Text:     n.Text,
		Meta:     n.Meta.Clone(),
	}
}

// WithMeta returns a new node identical to n but with key set to value in
// its metadata map. Children are shared verbatim.
func (n *Node) WithMeta(key MetadataKey, value any) *Node {
	meta := n.Meta.Clone()
	if meta == nil {
		meta = make(Metadata, 1)
	}
	meta[key] = value
	return &Node{
		Kind:     n.Kind,
		Rel:      n.Rel,
		ByteLen:  n.ByteLen,
		Rows:     n.Rows,
		LastCol:  n.LastCol,
		Children: n.Children,
		Text:     n.Text,
		Meta:     meta,
	}
}

// IsError reports whether this is an opaque recovered-parse-error node;
// downstream components must not extract symbols from it (spec §4.1).
func (n *Node) IsError() bool {
	return n.Kind == KindError
}
