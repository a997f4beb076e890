// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace holds the process-wide, lock-free symbol store and the
// bounded worker-pool scan that populates it from the files on disk.
// Implements: spec §4.5 (C5 Workspace symbol store).
package workspace

import (
	"sync"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// record is the store's internal representation of one contract symbol:
// the symbol itself plus the URI it was declared in, so symbols_in/
// remove_symbols_from can be served without a second index lookup.
type record struct {
	uri string
	sym types.Symbol
}

// Store is the workspace-global symbol table: every contract declaration
// visible across the whole indexed tree, keyed by name.
//
// Implements: spec §4.5 "process-wide, lock-free symbol lookup and
// reference tracking" — readers never block readers across disjoint keys
// (sync.Map), matching the teacher's WorkspaceState dependency-injection
// shape (internal/coder/coder.go's Deps) generalized from a single-repo
// in-memory cache to a concurrent cross-file store.
type Store struct {
	byName sync.Map // string -> *entry
	byURI  sync.Map // string -> *uriIndex
}

type entry struct {
	mu      sync.RWMutex
	symbols []record
}

type uriIndex struct {
	mu    sync.Mutex
	names map[string]bool
}

// New constructs an empty Store.
func New() *Store {
	return &Store{}
}

// Add inserts sym, declared in uri, into the store.
//
// Implements: spec §4.5 "add(symbol)".
func (s *Store) Add(uri string, sym types.Symbol) {
	v, _ := s.byName.LoadOrStore(sym.Name, &entry{})
	e := v.(*entry)
	e.mu.Lock()
	e.symbols = append(e.symbols, record{uri: uri, sym: sym})
	e.mu.Unlock()

	uv, _ := s.byURI.LoadOrStore(uri, &uriIndex{names: make(map[string]bool)})
	ui := uv.(*uriIndex)
	ui.mu.Lock()
	ui.names[sym.Name] = true
	ui.mu.Unlock()
}

// Lookup returns the first symbol declared under name, if any.
//
// Implements: spec §4.5 "lookup(name) → Option<Symbol>".
func (s *Store) Lookup(name string) (types.Symbol, bool) {
	v, ok := s.byName.Load(name)
	if !ok {
		return types.Symbol{}, false
	}
	e := v.(*entry)
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.symbols) == 0 {
		return types.Symbol{}, false
	}
	return e.symbols[0].sym, true
}

// LookupAll returns every symbol declared under name, across every file
// (an overloaded contract name may be declared in more than one place).
func (s *Store) LookupAll(name string) []types.Symbol {
	v, ok := s.byName.Load(name)
	if !ok {
		return nil
	}
	e := v.(*entry)
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Symbol, len(e.symbols))
	for i, r := range e.symbols {
		out[i] = r.sym
	}
	return out
}

// SymbolsIn returns every symbol declared in uri.
//
// Implements: spec §4.5 "symbols_in(uri) → Vec<Symbol>".
func (s *Store) SymbolsIn(uri string) []types.Symbol {
	uv, ok := s.byURI.Load(uri)
	if !ok {
		return nil
	}
	ui := uv.(*uriIndex)
	ui.mu.Lock()
	names := make([]string, 0, len(ui.names))
	for n := range ui.names {
		names = append(names, n)
	}
	ui.mu.Unlock()

	var out []types.Symbol
	for _, name := range names {
		v, ok := s.byName.Load(name)
		if !ok {
			continue
		}
		e := v.(*entry)
		e.mu.RLock()
		for _, r := range e.symbols {
			if r.uri == uri {
				out = append(out, r.sym)
			}
		}
		e.mu.RUnlock()
	}
	return out
}

// RemoveSymbolsFrom removes every symbol declared in uri and returns the
// count removed.
//
// Implements: spec §4.5 "remove_symbols_from(uri) → usize".
func (s *Store) RemoveSymbolsFrom(uri string) int {
	uv, ok := s.byURI.LoadAndDelete(uri)
	if !ok {
		return 0
	}
	ui := uv.(*uriIndex)
	ui.mu.Lock()
	names := make([]string, 0, len(ui.names))
	for n := range ui.names {
		names = append(names, n)
	}
	ui.mu.Unlock()

	removed := 0
	for _, name := range names {
		v, ok := s.byName.Load(name)
		if !ok {
			continue
		}
		e := v.(*entry)
		e.mu.Lock()
		kept := e.symbols[:0:0]
		for _, r := range e.symbols {
			if r.uri == uri {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		e.symbols = kept
		empty := len(e.symbols) == 0
		e.mu.Unlock()
		if empty {
			s.byName.CompareAndDelete(name, v)
		}
	}
	return removed
}

// RemoveReferencesFrom strips every reference recorded from uri across
// every symbol in the store and returns the count removed.
//
// Implements: spec §4.5 "remove_references_from(uri) → usize".
func (s *Store) RemoveReferencesFrom(uri string) int {
	removed := 0
	s.byName.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		for i := range e.symbols {
			refs := e.symbols[i].sym.References[:0:0]
			for _, r := range e.symbols[i].sym.References {
				if r.URI == uri {
					removed++
					continue
				}
				refs = append(refs, r)
			}
			e.symbols[i].sym.References = refs
		}
		e.mu.Unlock()
		return true
	})
	return removed
}

// AddReference appends a reference to name's symbol.
//
// Implements: spec §4.5 "add_reference(name, (uri, pos))".
func (s *Store) AddReference(name string, loc types.Location) {
	v, ok := s.byName.Load(name)
	if !ok {
		return
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.symbols {
		e.symbols[i].sym.AddReference(loc)
	}
}

// ReferenceCount returns the total number of recorded references to name,
// used by the completion/hover ranking tuple (spec §4.9 "reference
// count"), summed across every overload sharing the name.
func (s *Store) ReferenceCount(name string) int {
	v, ok := s.byName.Load(name)
	if !ok {
		return 0
	}
	e := v.(*entry)
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, r := range e.symbols {
		n += len(r.sym.References)
	}
	return n
}

// All returns every symbol currently in the store, across every file.
// Supplements spec §4.5's named operation set to serve workspace/symbol
// queries (spec §4.9's supplemented-feature list), which need a full scan
// rather than a name- or URI-keyed lookup.
func (s *Store) All() []types.Symbol {
	var out []types.Symbol
	s.byName.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.RLock()
		for _, r := range e.symbols {
			out = append(out, r.sym)
		}
		e.mu.RUnlock()
		return true
	})
	return out
}

// Reindex implements spec §4.5's invariant-preservation protocol: remove
// U's prior symbols and references, then add the freshly built ones.
// Callers invoke this under the dirty tracker's single logical step
// (spec §4.8), so the brief window without U's entries is acceptable.
func (s *Store) Reindex(uri string, fresh []types.Symbol) {
	s.RemoveSymbolsFrom(uri)
	s.RemoveReferencesFrom(uri)
	for _, sym := range fresh {
		s.Add(uri, sym)
	}
}
