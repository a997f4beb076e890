// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package symbols builds the hierarchical scope tree and declaration/
// reference symbol table from an IR document, and attaches documentation
// harvested from the comment channel to each declaration.
// Implements: spec §4.3 (C3 Symbol table & documentation attacher).
package symbols

import "github.com/f1r3fly-io/rholang-language-server/pkg/types"

// ScopeID identifies one lexical scope within a document.
type ScopeID int

// Scope is one node in the hierarchical scope tree opened by New, Let,
// Contract, Input, Match, and Block (spec §4.3 "Scoping rules").
type Scope struct {
	ID       ScopeID
	Parent   ScopeID // -1 for the root scope
	bindings map[string]types.SymbolID
}

// ScopeTree is the full hierarchical scope structure for one document.
type ScopeTree struct {
	scopes []*Scope
}

// NewScopeTree constructs a tree containing only the root scope.
func NewScopeTree() *ScopeTree {
	t := &ScopeTree{}
	t.scopes = append(t.scopes, &Scope{ID: 0, Parent: -1, bindings: make(map[string]types.SymbolID)})
	return t
}

// Root returns the document's outermost scope.
func (t *ScopeTree) Root() ScopeID { return 0 }

// Open allocates a new scope as a child of parent, per spec §4.3
// "allocates a scope on entry to scope-opening nodes".
func (t *ScopeTree) Open(parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, &Scope{ID: id, Parent: parent, bindings: make(map[string]types.SymbolID)})
	return id
}

// Bind records a binding of name to sym within scope (spec §4.3
// "records bindings"). A later bind of the same name in the same scope
// shadows the earlier one, matching lexical shadowing semantics.
func (t *ScopeTree) Bind(scope ScopeID, name string, sym types.SymbolID) {
	t.scopes[scope].bindings[name] = sym
}

// Resolve looks up name starting at scope and walking outward through
// parent scopes, per spec §4.3 "resolution walks outward". Returns
// (0, false) on a miss, which callers surface as an unlinked reference
// rather than an error (spec §4.3 Failure).
func (t *ScopeTree) Resolve(scope ScopeID, name string) (types.SymbolID, bool) {
	for s := scope; ; {
		if id, ok := t.scopes[s].bindings[name]; ok {
			return id, true
		}
		parent := t.scopes[s].Parent
		if parent < 0 {
			return 0, false
		}
		s = parent
	}
}
