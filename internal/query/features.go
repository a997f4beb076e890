// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package query

import (
	"sort"
	"strings"

	"github.com/f1r3fly-io/rholang-language-server/internal/virtualdoc"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// fuzzyAugmentThreshold is the candidate-count floor below which
// Completion augments an exact-prefix result with a fuzzy pass (spec
// §4.9: "if < N candidates, augment with query_fuzzy(edit_distance=1)").
const fuzzyAugmentThreshold = 5

// symbolAt resolves the symbol referenced or declared by the node at pos.
// A call-site channel name (e.g. the `process` in `process!("start", x)`)
// is disambiguated by argument pattern through the pattern index first
// (spec §4.4 "given a call site name(a1,…,ak), return the … declarations
// in specificity order", spec.md:345 property 7); failing that, the
// node's own symbol-ref metadata (set by internal/symbols during the
// single-document Attach pass) is consulted; failing that — the name
// never resolved to a local declaration, which is exactly what happens
// for a reference into another file — the workspace-global store is
// consulted by name (spec §4.5 "lookup(name)").
func (d *Dispatcher) symbolAt(doc DocumentContext, pos types.Position) (types.Symbol, bool) {
	node := doc.Index.FindNodeAtPosition(pos)
	if node == nil {
		return types.Symbol{}, false
	}

	if sym, ok := d.callSiteSymbol(doc, pos, node); ok {
		return sym, true
	}

	if id, ok := node.Meta.SymbolRef(); ok {
		if sym, ok := doc.Symbols.Get(id); ok {
			return sym, true
		}
	}

	if d.Workspace != nil && node.Text != "" {
		if sym, ok := d.Workspace.Lookup(node.Text); ok {
			return sym, true
		}
	}

	return types.Symbol{}, false
}

// callSiteSymbol reports the specific contract overload a call site's
// channel name resolves to, found by canonicalizing the call's argument
// list and querying the pattern index (C4) rather than whichever single
// binding ScopeTree.Bind last recorded for that name. Only the channel
// name node itself disambiguates this way; a position inside an argument
// still resolves to whatever that argument references, not the contract
// being invoked.
func (d *Dispatcher) callSiteSymbol(doc DocumentContext, pos types.Position, node *types.Node) (types.Symbol, bool) {
	if d.Patterns == nil || doc.Root == nil {
		return types.Symbol{}, false
	}
	send, channel := findEnclosingSend(doc.Root, types.Position{}, pos)
	if send == nil || channel != node {
		return types.Symbol{}, false
	}
	name := strings.TrimSpace(channel.Text)
	if name == "" {
		return types.Symbol{}, false
	}

	matches := d.Patterns.Query(name, send.Children[1:])
	if len(matches) == 0 {
		return types.Symbol{}, false
	}
	best := matches[0]

	if d.Workspace != nil {
		for _, sym := range d.Workspace.LookupAll(name) {
			if sym.Declaration == best.Location {
				return sym, true
			}
		}
	}
	// The declaration is known to the pattern index but not (yet) mirrored
	// into the workspace store — fall back to the local document's table.
	return doc.Symbols.Get(best.Symbol)
}

// findEnclosingSend walks root looking for the Send node whose channel
// (first) child's span contains pos, returning both the Send node and its
// channel child. There is no parent linkage on types.Node (spec §3
// invariant i keeps the IR a plain immutable tree), so disambiguating a
// call site requires this one top-down search rather than a pointer walk.
func findEnclosingSend(root *types.Node, parentStart types.Position, pos types.Position) (*types.Node, *types.Node) {
	if root == nil {
		return nil, nil
	}
	span := root.Span(parentStart)
	if !span.Contains(pos) {
		return nil, nil
	}
	abs := span.Start
	if root.Kind == types.KindSend && len(root.Children) >= 1 {
		channel := root.Children[0]
		if channel.Span(abs).Contains(pos) {
			return root, channel
		}
	}
	for _, child := range root.Children {
		if send, channel := findEnclosingSend(child, abs, pos); send != nil {
			return send, channel
		}
	}
	return nil, nil
}

// GotoDefinition locates the node at pos, extracts its resolved symbol,
// and returns the symbol's definition (or declaration, absent a separate
// definition). When virtual is non-nil, pos is first mapped into the
// virtual document's coordinate space and results are mapped back out to
// the parent (spec §4.9 "For virtual docs, map cursor in and map results out").
func (d *Dispatcher) GotoDefinition(doc DocumentContext, pos types.Position, virtual *virtualdoc.VirtualDocument) ([]types.Location, error) {
	queryDoc := doc
	queryPos := pos

	if virtual != nil {
		vByte, ok := virtual.Offsets.MapIntoVirtual(pos.Byte)
		if !ok {
			return nil, nil
		}
		queryPos = types.Position{Byte: vByte}
	}

	sym, ok := d.symbolAt(queryDoc, queryPos)
	if !ok {
		return nil, nil
	}

	loc := sym.Declaration
	if sym.Definition != nil {
		loc = *sym.Definition
	}

	if virtual != nil && loc.URI == queryDoc.URI {
		parentByte, ok := virtual.Offsets.MapToParent(loc.Pos.Byte)
		if !ok {
			return nil, nil
		}
		loc = types.Location{URI: virtual.ParentURI, Pos: types.Position{Byte: parentByte}}
	}
	return []types.Location{loc}, nil
}

// FindReferences resolves the symbol at pos and enumerates its recorded
// references, optionally including the declaration site itself.
func (d *Dispatcher) FindReferences(doc DocumentContext, pos types.Position, includeDeclaration bool) ([]types.Location, error) {
	sym, ok := d.symbolAt(doc, pos)
	if !ok {
		return nil, nil
	}
	out := make([]types.Location, 0, len(sym.References)+1)
	if includeDeclaration {
		out = append(out, sym.Declaration)
	}
	out = append(out, sym.References...)
	return out, nil
}

// DocumentHighlight restricts FindReferences to occurrences within the
// querying document itself (spec §4.9 supplemented feature).
func (d *Dispatcher) DocumentHighlight(doc DocumentContext, pos types.Position) ([]types.Location, error) {
	locs, err := d.FindReferences(doc, pos, true)
	if err != nil {
		return nil, err
	}
	out := locs[:0]
	for _, l := range locs {
		if l.URI == doc.URI {
			out = append(out, l)
		}
	}
	return out, nil
}

// PrepareRename reports whether pos names a renameable symbol, returning
// the range of its source-text occurrence for the client to highlight
// before it prompts for a new name (spec §4.9 supplemented feature).
func (d *Dispatcher) PrepareRename(doc DocumentContext, pos types.Position) (types.Range, bool) {
	node := doc.Index.FindNodeAtPosition(pos)
	if node == nil {
		return types.Range{}, false
	}
	if _, ok := d.symbolAt(doc, pos); !ok {
		return types.Range{}, false
	}
	span := doc.Index.AbsolutePositions()[node]
	return types.Range{Start: span.Start, End: span.End}, true
}

// Rename finds every occurrence of the symbol at pos (declaration plus
// references) and emits one TextEdit per occurrence replacing it with
// newName (spec §4.9 "find-references + declaration position → emit a
// workspace edit covering each occurrence").
func (d *Dispatcher) Rename(doc DocumentContext, pos types.Position, newName string) ([]TextEdit, error) {
	sym, ok := d.symbolAt(doc, pos)
	if !ok {
		return nil, nil
	}

	occurrences := make([]types.Location, 0, len(sym.References)+1)
	occurrences = append(occurrences, sym.Declaration)
	occurrences = append(occurrences, sym.References...)

	edits := make([]TextEdit, len(occurrences))
	for i, loc := range occurrences {
		end := loc.Pos
		end.Byte += len(sym.Name)
		end.Column += len(sym.Name)
		edits[i] = TextEdit{
			URI:     loc.URI,
			Range:   types.Range{Start: loc.Pos, End: end},
			NewText: newName,
		}
	}
	return edits, nil
}

// DocumentSymbol is one entry in a document-symbols response.
type DocumentSymbol struct {
	Name string
	Kind types.SymbolKind
	Loc  types.Location
}

// DocumentSymbols traverses the document's symbol table and emits one
// entry per declaration, ordered by declaration position (spec §4.9
// "traverse IR, emit a symbol for each declaration kind").
func (d *Dispatcher) DocumentSymbols(doc DocumentContext) []DocumentSymbol {
	all := doc.Symbols.All()
	out := make([]DocumentSymbol, 0, len(all))
	for _, sym := range all {
		out = append(out, DocumentSymbol{Name: sym.Name, Kind: sym.Kind, Loc: sym.Declaration})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Loc.Pos.Byte < out[j].Loc.Pos.Byte })
	return out
}

// WorkspaceSymbols searches every workspace-visible symbol for one whose
// name contains query (case-insensitive substring match), a supplemented
// feature spec §4.9 does not name explicitly but that the workspace store
// can already serve via its full-scan All().
func (d *Dispatcher) WorkspaceSymbols(query string) []types.Symbol {
	query = strings.ToLower(query)
	var out []types.Symbol
	for _, sym := range d.Workspace.All() {
		if strings.Contains(strings.ToLower(sym.Name), query) {
			out = append(out, sym)
		}
	}
	return out
}

// Hover resolves the symbol at pos and formats it via the language
// adapter's HoverProvider, falling back to a plain name/kind/doc rendering
// when no adapter is wired.
func (d *Dispatcher) Hover(doc DocumentContext, pos types.Position) (string, bool) {
	sym, ok := d.symbolAt(doc, pos)
	if !ok {
		return "", false
	}
	if d.Adapter.Hover != nil {
		return d.Adapter.Hover.Format(sym), true
	}
	text := sym.Kind.String() + " " + sym.Name
	if sym.Documentation != "" {
		text += "\n\n" + sym.Documentation
	}
	return text, true
}

// Completion determines the completion context at pos, queries the
// dictionary (augmenting a sparse prefix result with a fuzzy pass), folds
// in any language-specific items, and ranks the combined set by (scope
// distance, reference count descending, name length) — spec §4.9's
// ranking tuple, minus type compatibility since no type-checker exists in
// scope (internal/patternindex.InferType covers the narrower case it can).
func (d *Dispatcher) Completion(doc DocumentContext, pos types.Position, prefix string) []types.SymbolMeta {
	ctx := ClassifyContext(doc.Root, pos, prefix)

	var items []types.SymbolMeta
	if ctx.Kind == types.ContextTypeMethod && d.Adapter.Completion != nil {
		items = append(items, d.Adapter.Completion.Items(ctx)...)
	}

	prefixResults := d.Dict.QueryPrefix(prefix)
	items = append(items, prefixResults...)
	if len(prefixResults) < fuzzyAugmentThreshold {
		items = append(items, d.Dict.QueryFuzzy(prefix, 1, types.FuzzyStandard)...)
	}

	items = dedupeByName(items)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ScopeDepth != items[j].ScopeDepth {
			return items[i].ScopeDepth < items[j].ScopeDepth
		}
		if items[i].RefCount != items[j].RefCount {
			return items[i].RefCount > items[j].RefCount
		}
		return len(items[i].Name) < len(items[j].Name)
	})
	return items
}

func dedupeByName(items []types.SymbolMeta) []types.SymbolMeta {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, it)
	}
	return out
}
