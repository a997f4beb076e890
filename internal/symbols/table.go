// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import "github.com/f1r3fly-io/rholang-language-server/pkg/types"

// Table holds every symbol declared in one document and supports lookup by
// name and kind via an index-of-indices, avoiding a copy of the backing
// Symbol slice per query.
//
// Grounded on the teacher's ast.SymbolTable (internal/ast/symboltable.go):
// same byName/byKind secondary-index shape, generalized from Go
// declarations to Rholang contract/let/new/binder declarations.
type Table struct {
	symbols []types.Symbol
	byName  map[string][]int
	byKind  map[types.SymbolKind][]int
}

// NewTable constructs an empty symbol table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string][]int),
		byKind: make(map[types.SymbolKind][]int),
	}
}

// Declare appends sym to the table and returns the SymbolID assigned to it.
func (t *Table) Declare(sym types.Symbol) types.SymbolID {
	idx := len(t.symbols)
	sym.ID = types.SymbolID(idx + 1)
	t.symbols = append(t.symbols, sym)
	t.byName[sym.Name] = append(t.byName[sym.Name], idx)
	t.byKind[sym.Kind] = append(t.byKind[sym.Kind], idx)
	return sym.ID
}

// Get returns the symbol with the given ID.
func (t *Table) Get(id types.SymbolID) (types.Symbol, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.symbols) {
		return types.Symbol{}, false
	}
	return t.symbols[idx], true
}

// AddReference appends loc to the reference list of the symbol declared
// under id.
func (t *Table) AddReference(id types.SymbolID, loc types.Location) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.symbols) {
		return
	}
	t.symbols[idx].AddReference(loc)
}

// SetDocumentation attaches doc text to the symbol declared under id
// (spec §4.3 "attach the comment text as metadata[\"documentation\"]").
func (t *Table) SetDocumentation(id types.SymbolID, doc string) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.symbols) {
		return
	}
	t.symbols[idx].Documentation = doc
}

// ByName returns every symbol declared with the given name.
func (t *Table) ByName(name string) []types.Symbol {
	return t.lookup(t.byName[name])
}

// ByKind returns every symbol of the given kind.
func (t *Table) ByKind(kind types.SymbolKind) []types.Symbol {
	return t.lookup(t.byKind[kind])
}

// All returns every symbol in declaration order.
func (t *Table) All() []types.Symbol {
	out := make([]types.Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Len reports the number of declared symbols.
func (t *Table) Len() int { return len(t.symbols) }

func (t *Table) lookup(indices []int) []types.Symbol {
	if len(indices) == 0 {
		return nil
	}
	out := make([]types.Symbol, len(indices))
	for i, idx := range indices {
		out[i] = t.symbols[idx]
	}
	return out
}
