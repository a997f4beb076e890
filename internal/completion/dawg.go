// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package completion

import (
	"sync"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// dnode is one state of the dynamic DAWG's underlying trie. The structure
// is a plain trie at all times: Remove prunes nodes left with no children
// and no terminal marker, and Compact rebuilds the trie from the live terms.
// Equivalent suffix states are never merged, so a suffix shared by several
// terms is stored once per prefix path.
type dnode struct {
	children map[byte]*dnode
	terminal bool
}

// DAWG is the dynamic half of the completion dictionary: workspace symbol
// names, tagged by the context (document) that contributed them, inserted
// and removed as files are indexed and re-indexed.
type DAWG struct {
	mu sync.RWMutex

	root *dnode

	// contexts maps a term to the metadata contributed for it by each
	// still-live context; a term is deleted from the trie once this map
	// empties.
	contexts map[string]map[types.ContextID]types.SymbolMeta

	// uriTerms is the reverse index (spec §4.6): uri -> Set<term>, letting
	// RemoveSymbolsFromFile run in O(|file symbols|) instead of a full scan.
	uriTerms map[types.ContextID]map[string]bool

	nodeCount        int
	minimalNodeCount int
}

// NewDAWG constructs an empty dynamic dictionary.
func NewDAWG() *DAWG {
	return &DAWG{
		root:     &dnode{children: make(map[byte]*dnode)},
		contexts: make(map[string]map[types.ContextID]types.SymbolMeta),
		uriTerms: make(map[types.ContextID]map[string]bool),
	}
}

// Insert adds term under context, creating trie nodes as needed.
func (d *DAWG) Insert(term string, context types.ContextID, meta types.SymbolMeta) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.root
	for i := 0; i < len(term); i++ {
		b := term[i]
		child, ok := n.children[b]
		if !ok {
			child = &dnode{children: make(map[byte]*dnode)}
			n.children[b] = child
			d.nodeCount++
		}
		n = child
	}
	n.terminal = true

	if d.contexts[term] == nil {
		d.contexts[term] = make(map[types.ContextID]types.SymbolMeta)
	}
	d.contexts[term][context] = meta

	if d.uriTerms[context] == nil {
		d.uriTerms[context] = make(map[string]bool)
	}
	d.uriTerms[context][term] = true
}

// Remove drops context's contribution of term (spec §4.6): once the last
// context leaves, the term itself, and any now-dead trie branch, is deleted.
func (d *DAWG) Remove(term string, context types.ContextID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeLocked(term, context)
}

func (d *DAWG) removeLocked(term string, context types.ContextID) {
	if set, ok := d.contexts[term]; ok {
		delete(set, context)
		if len(set) == 0 {
			delete(d.contexts, term)
			d.deleteFromTrie(term)
		}
	}
	if set, ok := d.uriTerms[context]; ok {
		delete(set, term)
		if len(set) == 0 {
			delete(d.uriTerms, context)
		}
	}
}

// deleteFromTrie clears the terminal flag for term and prunes any node
// left with no children and no terminal marker, walking back toward root.
func (d *DAWG) deleteFromTrie(term string) {
	path := make([]*dnode, len(term)+1)
	path[0] = d.root
	n := d.root
	for i := 0; i < len(term); i++ {
		child, ok := n.children[term[i]]
		if !ok {
			return // not present; nothing to prune
		}
		path[i+1] = child
		n = child
	}
	path[len(term)].terminal = false

	for i := len(term); i > 0; i-- {
		node := path[i]
		if len(node.children) > 0 || node.terminal {
			break
		}
		parent := path[i-1]
		delete(parent.children, term[i-1])
		d.nodeCount--
	}
}

// InsertSymbolsFromFile registers every name -> meta pair as a term
// contributed by uri.
func (d *DAWG) InsertSymbolsFromFile(uri string, symbols map[string]types.SymbolMeta) {
	for name, meta := range symbols {
		d.Insert(name, types.ContextID(uri), meta)
	}
}

// RemoveSymbolsFromFile drops every term uri previously contributed, via
// the reverse index, without touching any other document's terms.
func (d *DAWG) RemoveSymbolsFromFile(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	context := types.ContextID(uri)
	terms := d.uriTerms[context]
	for term := range terms {
		d.removeLocked(term, context)
	}
}

// NeedsCompaction reports whether live trie nodes have bloated to 1.5x or
// more of the node count recorded at the last compaction (spec §4.6).
func (d *DAWG) NeedsCompaction() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.minimalNodeCount == 0 {
		return false
	}
	return float64(d.nodeCount) >= 1.5*float64(d.minimalNodeCount)
}

// Compact rebuilds the trie from only its live terms and records the new
// node count as the baseline for the next bloat-ratio check. The rebuilt
// structure is a plain trie; equivalent suffix states are not merged.
func (d *DAWG) Compact() {
	d.mu.Lock()
	defer d.mu.Unlock()

	fresh := &dnode{children: make(map[byte]*dnode)}
	count := 0
	for term := range d.contexts {
		n := fresh
		for i := 0; i < len(term); i++ {
			b := term[i]
			child, ok := n.children[b]
			if !ok {
				child = &dnode{children: make(map[byte]*dnode)}
				n.children[b] = child
				count++
			}
			n = child
		}
		n.terminal = true
	}
	d.root = fresh
	d.nodeCount = count
	d.minimalNodeCount = count
}

// walkTerms collects every terminal term reachable from node, prefixed by prefix.
func walkTerms(node *dnode, prefix []byte, out *[]string) {
	if node.terminal {
		*out = append(*out, string(prefix))
	}
	for b, child := range node.children {
		walkTerms(child, append(prefix, b), out)
	}
}

// Prefix returns every live term beginning with prefix.
func (d *DAWG) Prefix(prefix string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := d.root
	for i := 0; i < len(prefix); i++ {
		child, ok := n.children[prefix[i]]
		if !ok {
			return nil
		}
		n = child
	}
	var out []string
	walkTerms(n, []byte(prefix), &out)
	return out
}

// All returns every live term, used when the term set is small enough for
// a sequential fuzzy scan to dominate the cost of spinning up a worker pool.
func (d *DAWG) All() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.contexts))
	for term := range d.contexts {
		out = append(out, term)
	}
	return out
}

// Len reports the number of distinct live terms.
func (d *DAWG) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.contexts)
}

// Contexts returns the metadata recorded for term across every context
// currently contributing it.
func (d *DAWG) Contexts(term string) map[types.ContextID]types.SymbolMeta {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[types.ContextID]types.SymbolMeta, len(d.contexts[term]))
	for k, v := range d.contexts[term] {
		out[k] = v
	}
	return out
}
