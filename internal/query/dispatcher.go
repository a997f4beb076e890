// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package query implements every LSP-style feature once,
// language-agnostically, dispatching language-specific concerns to a
// per-language capability bundle (spec §4.9 C9 Query dispatcher).
package query

import (
	"github.com/f1r3fly-io/rholang-language-server/internal/completion"
	"github.com/f1r3fly-io/rholang-language-server/internal/ir"
	"github.com/f1r3fly-io/rholang-language-server/internal/patternindex"
	"github.com/f1r3fly-io/rholang-language-server/internal/workspace"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// SymbolResolver resolves a name occurring at pos to every declaration
// location that could be its binding — lexical, pattern-aware overload
// resolution, and global cross-file (spec §4.9).
type SymbolResolver interface {
	Resolve(name string, pos types.Position, ctx types.CompletionContext) ([]types.Location, error)
}

// HoverProvider formats a resolved symbol (or, for a literal, its inferred
// type) into display text.
type HoverProvider interface {
	Format(sym types.Symbol) string
}

// CompletionProvider supplies language-specific ranked completion items —
// e.g. the builtin method set for TypeMethod context — beyond what the
// completion dictionary's own query_prefix/query_fuzzy already cover.
type CompletionProvider interface {
	Items(ctx types.CompletionContext) []types.SymbolMeta
}

// DocumentationProvider maps a symbol to its documentation text, if any.
type DocumentationProvider interface {
	Documentation(sym types.Symbol) (string, bool)
}

// TextEdit is a single replacement of the text spanning Range with NewText.
type TextEdit struct {
	URI     string
	Range   types.Range
	NewText string
}

// FormattingProvider is optional: it turns a parsed document's IR into a
// set of text edits using a language-supplied indent/capture schema.
type FormattingProvider interface {
	Format(root *types.Node) []TextEdit
}

// Adapter bundles every capability a language provides to the dispatcher.
// FormattingProvider may be nil (spec §4.9 marks it optional).
type Adapter struct {
	Resolver      SymbolResolver
	Hover         HoverProvider
	Completion    CompletionProvider
	Documentation DocumentationProvider
	Formatting    FormattingProvider
}

// DocumentContext is everything the dispatcher needs about one indexed
// document to answer a query against it.
type DocumentContext struct {
	URI     string
	Root    *types.Node
	Index   *ir.PositionIndex
	Symbols SymbolTableLike
	Source  []byte
}

// SymbolTableLike is the subset of *symbols.Table the dispatcher needs,
// kept as an interface so this package does not import internal/symbols
// directly (avoiding a dependency the other direction would not want).
type SymbolTableLike interface {
	Get(id types.SymbolID) (types.Symbol, bool)
	ByName(name string) []types.Symbol
	All() []types.Symbol
}

// Dispatcher answers every LSP-style query against the indexed workspace.
type Dispatcher struct {
	Workspace *workspace.Store
	Patterns  *patternindex.Trie
	Dict      *completion.Dict
	Adapter   Adapter
}

// NewDispatcher builds a Dispatcher over already-constructed workspace
// state; callers own the lifetime of every component passed in.
func NewDispatcher(ws *workspace.Store, patterns *patternindex.Trie, dict *completion.Dict, adapter Adapter) *Dispatcher {
	return &Dispatcher{Workspace: ws, Patterns: patterns, Dict: dict, Adapter: adapter}
}
