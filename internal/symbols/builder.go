// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import (
	"github.com/f1r3fly-io/rholang-language-server/internal/docextract"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// Document is the result of a single build pass: the scope tree, the
// declaration/reference table, and the per-node metadata discovered along
// the way. The IR itself is never mutated during the pass (spec §3
// invariant i); Attach folds the discovered metadata back into a new,
// structurally-shared tree afterward.
type Document struct {
	URI     string
	Scopes  *ScopeTree
	Table   *Table
	Comment *docextract.Channel

	scopeOf  map[*types.Node]int
	symRefOf map[*types.Node]types.SymbolID
	docOf    map[*types.Node]string
}

// Build runs the single-pass scope/binding/reference visitor followed by
// the documentation attachment pass.
//
// Implements: spec §4.3 "single-pass visitor that (i) allocates a scope on
// entry to scope-opening nodes, (ii) records bindings, (iii) records
// references and links them to declarations"; and the separate
// "documentation attacher" pass.
func Build(uri string, root *types.Node, comments []docextract.Comment) *Document {
	doc := &Document{
		URI:      uri,
		Scopes:   NewScopeTree(),
		Table:    NewTable(),
		Comment:  docextract.NewChannel(comments),
		scopeOf:  make(map[*types.Node]int),
		symRefOf: make(map[*types.Node]types.SymbolID),
		docOf:    make(map[*types.Node]string),
	}
	b := &builder{doc: doc}
	b.visit(root, doc.Scopes.Root(), types.Position{})
	return doc
}

// Attach folds the scope id, symbol reference, and documentation metadata
// discovered during Build back into a fresh IR tree, sharing every node
// Build's pass left untouched (spec §4.3 "attach it to the IR root's
// metadata"; spec §3 invariant ii "structural sharing").
//
// This walks the *original* tree directly, rather than going through
// ir.Visit's generic change-propagation, because the map lookups below are
// keyed by the original node's pointer identity: once an ancestor is
// reallocated (because one of its descendants changed), that identity
// would otherwise be lost before the ancestor's own metadata could be
// looked up.
func (doc *Document) Attach(root *types.Node) *types.Node {
	return doc.attachNode(root)
}

func (doc *Document) attachNode(n *types.Node) *types.Node {
	if n == nil {
		return nil
	}

	changed := false
	var newChildren []*types.Node
	if len(n.Children) > 0 {
		newChildren = make([]*types.Node, len(n.Children))
		for i, child := range n.Children {
			replaced := doc.attachNode(child)
			newChildren[i] = replaced
			if replaced != child {
				changed = true
			}
		}
	}

	scopeID, hasScope := doc.scopeOf[n]
	symRef, hasSymRef := doc.symRefOf[n]
	docText, hasDoc := doc.docOf[n]
	if !changed && !hasScope && !hasSymRef && !hasDoc {
		return n
	}

	meta := n.Meta.Clone()
	if meta == nil {
		meta = make(types.Metadata, 3)
	}
	if hasScope {
		meta[types.MetaScopeID] = scopeID
	}
	if hasSymRef {
		meta[types.MetaSymbolRef] = symRef
	}
	if hasDoc {
		meta[types.MetaDocumentation] = docText
	}

	children := n.Children
	if changed {
		children = newChildren
	}
	return &types.Node{
		Kind:     n.Kind,
		Rel:      n.Rel,
		ByteLen:  n.ByteLen,
		Rows:     n.Rows,
		LastCol:  n.LastCol,
		Children: children,
		Text:     n.Text,
		Meta:     meta,
	}
}

type builder struct {
	doc *Document
}

// visit walks node within scope, tracking abs — node's reconstructed
// absolute start position — so declarations and references can be recorded
// with real (uri, position) Locations (spec §3 "declaration: (uri,
// position)").
func (b *builder) visit(node *types.Node, scope ScopeID, parentStart types.Position) {
	if node == nil {
		return
	}
	abs := node.Rel.Add(parentStart)

	switch node.Kind {
	case types.KindContract:
		b.declareContract(node, scope, abs)
		return // declareContract recurses into formals/body itself

	case types.KindNameDecl:
		b.bind(node, scope, abs, types.SymbolNew)

	case types.KindDecl:
		b.bind(node, scope, abs, types.SymbolLet)

	case types.KindLinearBind:
		b.bind(node, scope, abs, types.SymbolLinearBind)

	case types.KindRepeatedBind:
		b.bind(node, scope, abs, types.SymbolRepeatedBind)

	case types.KindPeekBind:
		b.bind(node, scope, abs, types.SymbolPeekBind)

	case types.KindVar, types.KindVarRef, types.KindEval:
		b.reference(node, scope, abs)
	}

	childScope := scope
	if node.Kind.ScopeOpening() {
		childScope = b.doc.Scopes.Open(scope)
		b.doc.scopeOf[node] = int(childScope)
	}
	for _, child := range node.Children {
		b.visit(child, childScope, abs)
	}
}

// declareContract records the contract's own symbol in its enclosing
// scope (so sibling/later contracts and external callers can resolve it by
// name), then opens the body scope and binds formals as Parameters within
// it, per spec §4.3 "Contract formals introduce parameter bindings in the
// contract body's scope".
func (b *builder) declareContract(node *types.Node, scope ScopeID, abs types.Position) {
	name := node.Text
	loc := types.Location{URI: b.doc.URI, Pos: abs}
	id := b.doc.Table.Declare(types.Symbol{
		Name:        name,
		Kind:        types.SymbolContract,
		Declaration: loc,
		Visibility:  types.VisibilityPublic,
	})
	b.doc.Scopes.Bind(scope, name, id)
	b.doc.symRefOf[node] = id
	b.attachDoc(node, id, abs)

	bodyScope := b.doc.Scopes.Open(scope)
	b.doc.scopeOf[node] = int(bodyScope)
	for _, child := range node.Children {
		childAbs := child.Rel.Add(abs)
		if child.Kind == types.KindNameDecl || isFormalPattern(child) {
			b.bind(child, bodyScope, childAbs, types.SymbolParameter)
			continue
		}
		b.visit(child, bodyScope, abs)
	}
}

// isFormalPattern reports whether child is a bare pattern variable used as
// a contract formal, i.e. a leaf Var carrying a name rather than a nested
// structural pattern (those are matched, not bound, and fall through to
// ordinary traversal).
func isFormalPattern(child *types.Node) bool {
	return child.Kind == types.KindVar && child.Text != ""
}

// bind declares node as a binding of kind in scope, using node's own Text
// as the bound name, and records it in the scope table under its
// continuation scope (the caller-supplied scope — binders in Input/Let
// bind into the continuation's scope per spec §4.3).
func (b *builder) bind(node *types.Node, scope ScopeID, abs types.Position, kind types.SymbolKind) {
	name := node.Text
	if name == "" {
		return
	}
	loc := types.Location{URI: b.doc.URI, Pos: abs}
	id := b.doc.Table.Declare(types.Symbol{
		Name:        name,
		Kind:        kind,
		Declaration: loc,
		Visibility:  types.VisibilityFileLocal,
	})
	b.doc.Scopes.Bind(scope, name, id)
	b.doc.symRefOf[node] = id
	b.attachDoc(node, id, abs)
}

// reference resolves node's name outward through the scope chain and
// records the use as a reference on the matching declaration. An
// unresolved name is not an error (spec §4.3 Failure) — it is simply not
// linked.
func (b *builder) reference(node *types.Node, scope ScopeID, abs types.Position) {
	name := node.Text
	if name == "" {
		return
	}
	id, ok := b.doc.Scopes.Resolve(scope, name)
	if !ok {
		return
	}
	b.doc.Table.AddReference(id, types.Location{URI: b.doc.URI, Pos: abs})
	b.doc.symRefOf[node] = id
}

// attachDoc implements the documentation attacher pass inline at
// declaration time: find the nearest preceding comment, and if it
// qualifies as an adjacent doc-comment, store its text on the symbol.
func (b *builder) attachDoc(node *types.Node, id types.SymbolID, abs types.Position) {
	if b.doc.Comment == nil {
		return
	}
	if c, ok := b.doc.Comment.NearestDocBefore(abs.Row); ok {
		b.doc.Table.SetDocumentation(id, c.Text)
		b.doc.docOf[node] = c.Text
	}
}
