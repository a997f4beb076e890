// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/f1r3fly-io/rholang-language-server/internal/completion"
	"github.com/f1r3fly-io/rholang-language-server/internal/docextract"
	"github.com/f1r3fly-io/rholang-language-server/internal/ir"
	"github.com/f1r3fly-io/rholang-language-server/internal/parsecache"
	"github.com/f1r3fly-io/rholang-language-server/internal/patternindex"
	"github.com/f1r3fly-io/rholang-language-server/internal/symbols"
	"github.com/f1r3fly-io/rholang-language-server/internal/virtualdoc"
	"github.com/f1r3fly-io/rholang-language-server/internal/workspace"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// defaultIsComment identifies comment CST node types for docextract.Extract.
// Grounded the same way the IR builder's KindMapper is: a language-supplied
// predicate, defaulted here to a name match any tree-sitter comment rule
// conventionally uses ("comment").
func defaultIsComment(sitterType string) bool { return sitterType == "comment" }

// Indexer builds and maintains the indexed workspace state: the per-file
// parse cache, the global symbol store, the pattern index, and the
// completion dictionary. One Indexer is shared by the initial full scan
// (workspace.ScanRoot) and every incremental re-index the scheduler drives.
type Indexer struct {
	logger   *zap.Logger
	lang     LanguageAdapter
	parses   *parsecache.Cache
	symbols  *workspace.Store
	patterns *patternindex.Trie
	dict     *completion.Dict

	mu       sync.Mutex
	parsers  sync.Pool // *sitter.Parser, one per goroutine to avoid shared mutable state
	docs     map[string]*symbols.Document
	virtuals map[string][]*virtualdoc.VirtualDocument
}

// NewIndexer builds an Indexer over already-constructed workspace state.
func NewIndexer(logger *zap.Logger, lang LanguageAdapter, parseCacheCapacity int, ws *workspace.Store, patterns *patternindex.Trie, dict *completion.Dict) *Indexer {
	idx := &Indexer{
		logger:   logger,
		lang:     lang,
		parses:   parsecache.New(parseCacheCapacity),
		symbols:  ws,
		patterns: patterns,
		dict:     dict,
		docs:     make(map[string]*symbols.Document),
		virtuals: make(map[string][]*virtualdoc.VirtualDocument),
	}
	idx.parsers.New = func() any {
		p := sitter.NewParser()
		if lang.Language != nil {
			p.SetLanguage(lang.Language)
		}
		return p
	}
	return idx
}

// IndexFile parses content (reusing the parse cache when its hash hits),
// builds the IR, links symbols, registers contracts in the pattern index,
// pushes the document's names into the completion dictionary, and detects
// embedded-language regions, recursing into each one.
//
// Grounded on the teacher's ast.ScanDir per-file pipeline (parse, extract,
// index), generalized from Go's go/parser to an injected tree-sitter
// grammar and from a single symbol table to the full C1-C8 pipeline this
// repository builds out.
func (idx *Indexer) IndexFile(ctx context.Context, uri string, content []byte) error {
	if idx.lang.Language == nil {
		return fmt.Errorf("indexing %s: %w", uri, ErrNoLanguageAdapter)
	}

	root, comments, err := idx.parse(content)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", uri, err)
	}

	doc := symbols.Build(uri, root, comments)
	root = doc.Attach(root)

	idx.mu.Lock()
	idx.docs[uri] = doc
	idx.mu.Unlock()

	idx.symbols.RemoveSymbolsFrom(uri)
	idx.symbols.RemoveReferencesFrom(uri)
	idx.patterns.Remove(uri)
	idx.dict.RemoveSymbolsFromFile(uri)

	for _, sym := range doc.Table.All() {
		idx.symbols.Add(uri, sym)
	}

	idx.registerContracts(uri, root, doc)
	idx.registerReferences(uri, root, doc)

	byFile := make(map[string]types.SymbolMeta)
	for _, sym := range doc.Table.All() {
		byFile[sym.Name] = types.SymbolMeta{
			Name:     sym.Name,
			Kind:     sym.Kind,
			RefCount: idx.symbols.ReferenceCount(sym.Name),
		}
	}
	idx.dict.InsertSymbolsFromFile(uri, byFile)

	regions := virtualdoc.DetectAll(root, content, comments)
	var vdocs []*virtualdoc.VirtualDocument
	for _, region := range regions {
		vdoc, err := virtualdoc.Build(uri, region, idx.virtualPipeline(ctx))
		if err != nil {
			idx.logger.Warn("virtual document extraction failed",
				zap.String("uri", uri), zap.String("lang", region.Lang), zap.Error(err))
			continue
		}
		vdocs = append(vdocs, vdoc)
	}
	idx.mu.Lock()
	idx.virtuals[uri] = vdocs
	idx.mu.Unlock()

	return nil
}

// parse runs the injected grammar over content via a pooled parser,
// consulting idx.parses by content hash first (spec §4.2 C2 parse cache).
func (idx *Indexer) parse(content []byte) (*types.Node, []docextract.Comment, error) {
	tree, ok := idx.parses.Get(content)
	if !ok {
		p := idx.parsers.Get().(*sitter.Parser)
		defer idx.parsers.Put(p)

		var err error
		tree, err = p.ParseCtx(context.Background(), nil, content)
		if err != nil {
			return nil, nil, err
		}
		idx.parses.Put(content, tree)
	}

	builder := ir.NewBuilder(idx.lang.KindMapper, idx.lang.IsLiteral)
	root := builder.Build(tree.RootNode(), content)
	comments := docextract.Extract(tree.RootNode(), content, defaultIsComment)
	return root, comments, nil
}

// virtualPipeline returns the recursive entry point virtualdoc.Build feeds
// an embedded region's extracted text back through, so MeTTa (or any other
// embedded language) is indexed by the very same pipeline.
func (idx *Indexer) virtualPipeline(ctx context.Context) virtualdoc.Pipeline {
	return func(uri string, content []byte) (*types.Node, any, error) {
		root, comments, err := idx.parse(content)
		if err != nil {
			return nil, nil, err
		}
		doc := symbols.Build(uri, root, comments)
		return doc.Attach(root), doc, nil
	}
}

// registerContracts walks root for Contract declarations and inserts each
// into the pattern index under its formal-parameter list, replicating the
// same formal-vs-body child classification internal/symbols.builder uses
// (a bare Var with non-empty text, or an explicit NameDecl) since the
// pattern index needs the raw formal nodes themselves, not just the
// Declare'd Parameter symbols.
func (idx *Indexer) registerContracts(uri string, root *types.Node, doc *symbols.Document) {
	var walk func(n *types.Node)
	walk = func(n *types.Node) {
		if n == nil {
			return
		}
		if n.Kind == types.KindContract {
			name := n.Text
			// Resolve via this Contract node's own symbol-ref metadata,
			// not a name-based table lookup: two same-named overloads
			// each get their own symRefOf entry (symbols/builder.go's
			// declareContract), but doc.Table.ByName(name) can't tell them
			// apart — it would always hand back the first declaration's
			// symbol regardless of which Contract node is being visited.
			if id, ok := n.Meta.SymbolRef(); ok {
				if sym, ok := doc.Table.Get(id); ok {
					var formals []*types.Node
					for _, child := range n.Children {
						if child.Kind == types.KindNameDecl || (child.Kind == types.KindVar && child.Text != "") {
							formals = append(formals, child)
						}
					}
					idx.patterns.Insert(name, sym.ID, sym.Declaration, formals)
				}
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
}

// registerReferences walks root for name occurrences that did not resolve
// to a local declaration (symbols.Document only resolves lexically-scoped,
// same-file bindings) but do name a contract already known to the
// workspace, and records each as a cross-file reference via
// workspace.Store.AddReference — the signal C9's completion/hover ranking
// sorts by (spec §4.9 "reference count").
func (idx *Indexer) registerReferences(uri string, root *types.Node, doc *symbols.Document) {
	var walk func(n *types.Node)
	walk = func(n *types.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case types.KindVar, types.KindVarRef, types.KindEval:
			name := n.Text
			if name != "" && len(doc.Table.ByName(name)) == 0 {
				if _, ok := idx.symbols.Lookup(name); ok {
					idx.symbols.AddReference(name, types.Location{URI: uri})
				}
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
}

// Document returns the most recently indexed symbols.Document for uri, if
// any.
func (idx *Indexer) Document(uri string) (*symbols.Document, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	d, ok := idx.docs[uri]
	return d, ok
}

// VirtualDocuments returns the embedded-language documents most recently
// detected inside uri.
func (idx *Indexer) VirtualDocuments(uri string) []*virtualdoc.VirtualDocument {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.virtuals[uri]
}
