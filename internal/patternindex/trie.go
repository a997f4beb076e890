// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patternindex

import (
	"sort"
	"sync"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// Declaration is one registered contract formal-parameter pattern.
type Declaration struct {
	Name     string
	Symbol   types.SymbolID
	Location types.Location
	Pattern  Token // TokTuple-shaped: Children are the formal positions
	order    int   // insertion sequence, for the stable specificity tie-break
}

// Match is a Declaration that matched a query, carrying its specificity
// rank for sorting.
type Match struct {
	Declaration
	Generality int
}

// Trie indexes contract declarations by formal-parameter arity, the
// top-level discriminator the spec's matching rules can prune on in
// constant time, then confirms candidates with the full recursive Match
// rule so nested binder/wildcard/typed positions inside compound
// arguments (List/Set/Map/Tuple) are still honored exactly.
//
// Implements the storage of spec §4.4 with arity buckets, not a trie keyed
// by the canonical token stream: each entry records its (uri,
// declaration-position), and Remove drops only the declarations one URI
// registered.
type Trie struct {
	mu      sync.RWMutex
	byArity map[int][]*Declaration
	byURI   map[string][]*Declaration // secondary index: the declarations each URI registered
	nextSeq int
}

// New constructs an empty pattern index.
func New() *Trie {
	return &Trie{
		byArity: make(map[int][]*Declaration),
		byURI:   make(map[string][]*Declaration),
	}
}

// Insert registers a contract's formal-parameter list under its arity
// bucket. formals is canonicalized into a TokTuple pattern.
func (t *Trie) Insert(name string, sym types.SymbolID, loc types.Location, formals []*types.Node) {
	pattern := Token{Kind: TokTuple, Children: canonicalizeAll(formals)}

	t.mu.Lock()
	defer t.mu.Unlock()
	decl := &Declaration{Name: name, Symbol: sym, Location: loc, Pattern: pattern, order: t.nextSeq}
	t.nextSeq++
	arity := len(pattern.Children)
	t.byArity[arity] = append(t.byArity[arity], decl)
	t.byURI[loc.URI] = append(t.byURI[loc.URI], decl)
}

// Remove deletes every declaration registered from uri, per spec §4.4
// "re-indexing a changed file removes only its entries". Returns the
// number of declarations removed.
func (t *Trie) Remove(uri string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	gone := t.byURI[uri]
	if len(gone) == 0 {
		return 0
	}
	delete(t.byURI, uri)

	doomed := make(map[*Declaration]bool, len(gone))
	for _, d := range gone {
		doomed[d] = true
	}
	for arity, decls := range t.byArity {
		kept := decls[:0:0]
		for _, d := range decls {
			if !doomed[d] {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			delete(t.byArity, arity)
		} else {
			t.byArity[arity] = kept
		}
	}
	return len(gone)
}

// Query canonicalizes a call site's arguments and returns every contract
// declaration whose formal pattern matches, ordered most-specific first,
// ties broken by declaration order.
//
// Implements: spec §4.4 "given a call site name(a1,…,ak), return the set
// of matching contract declarations in specificity order".
func (t *Trie) Query(name string, args []*types.Node) []Match {
	call := Token{Kind: TokTuple, Children: canonicalizeAll(args)}

	t.mu.RLock()
	candidates := t.byArity[len(call.Children)]
	snapshot := make([]*Declaration, len(candidates))
	copy(snapshot, candidates)
	t.mu.RUnlock()

	var out []Match
	for _, d := range snapshot {
		if d.Name != name {
			continue
		}
		if matchTuple(d.Pattern, call) {
			out = append(out, Match{Declaration: *d, Generality: Generality(d.Pattern)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Generality != out[j].Generality {
			return out[i].Generality < out[j].Generality
		}
		return out[i].order < out[j].order
	})
	return out
}

// matchTuple matches a TokTuple formal-list pattern against a TokTuple
// call-site argument list, position-wise.
func matchTuple(pattern, call Token) bool {
	if len(pattern.Children) != len(call.Children) {
		return false
	}
	for i := range pattern.Children {
		if !Match(pattern.Children[i], call.Children[i]) {
			return false
		}
	}
	return true
}

// Match applies spec §4.4's position-wise matching rules to one pattern
// token against one argument token.
func Match(pattern, arg Token) bool {
	switch pattern.Kind {
	case TokGroundStr, TokGroundNum, TokGroundBool, TokGroundOther:
		return arg.Kind == pattern.Kind && arg.Text == pattern.Text

	case TokBinder, TokWildcard:
		return true

	case TokTyped:
		typ, ok := InferType(arg)
		return ok && typ == pattern.Text

	case TokList, TokSet, TokMap, TokTuple:
		if arg.Kind != pattern.Kind || len(arg.Children) != len(pattern.Children) {
			return false
		}
		for i := range pattern.Children {
			if !Match(pattern.Children[i], arg.Children[i]) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
