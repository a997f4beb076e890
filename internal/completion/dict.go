// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package completion

import (
	"runtime"
	"sort"
	"sync"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// parallelFuzzyThreshold is the DAWG size above which query_fuzzy fans its
// scan out across a worker pool; below it the startup cost of spinning up
// goroutines exceeds the cost of just scanning sequentially (spec §4.6).
const parallelFuzzyThreshold = 1000

// Dict is the completion dictionary: a fixed static trie of language
// keywords plus a dynamic DAWG of workspace symbol names, queried together.
type Dict struct {
	static  *StaticTrie
	dynamic *DAWG
}

// NewDict builds a Dict whose static half contains keywords.
func NewDict(keywords []string) *Dict {
	return &Dict{static: NewStaticTrie(keywords), dynamic: NewDAWG()}
}

// Insert adds term as contributed by context to the dynamic half.
func (d *Dict) Insert(term string, context types.ContextID, meta types.SymbolMeta) {
	d.dynamic.Insert(term, context, meta)
}

// Remove drops context's contribution of term from the dynamic half.
func (d *Dict) Remove(term string, context types.ContextID) {
	d.dynamic.Remove(term, context)
}

// InsertSymbolsFromFile registers uri's symbol table into the dynamic half.
func (d *Dict) InsertSymbolsFromFile(uri string, symbols map[string]types.SymbolMeta) {
	d.dynamic.InsertSymbolsFromFile(uri, symbols)
}

// RemoveSymbolsFromFile drops every term uri previously contributed.
func (d *Dict) RemoveSymbolsFromFile(uri string) {
	d.dynamic.RemoveSymbolsFromFile(uri)
}

// NeedsCompaction reports whether the dynamic half has bloated past the
// 1.5x threshold since its last compaction.
func (d *Dict) NeedsCompaction() bool {
	return d.dynamic.NeedsCompaction()
}

// Compact rebuilds the dynamic half's trie from only its live terms.
func (d *Dict) Compact() {
	d.dynamic.Compact()
}

// QueryPrefix walks the static trie then the dynamic DAWG for terms
// beginning with prefix, concatenates the two result sets, and sorts by
// name length ascending (spec §4.6: shorter = more relevant prefix match).
func (d *Dict) QueryPrefix(prefix string) []types.SymbolMeta {
	var out []types.SymbolMeta

	for _, kw := range d.static.Prefix(prefix) {
		out = append(out, types.SymbolMeta{Name: kw, Kind: types.SymbolKeyword})
	}

	for _, term := range d.dynamic.Prefix(prefix) {
		for _, meta := range d.dynamic.Contexts(term) {
			meta.Name = term
			out = append(out, meta)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Name) < len(out[j].Name) })
	return out
}

type fuzzyHit struct {
	meta     types.SymbolMeta
	distance int
}

// QueryFuzzy runs a Levenshtein-distance scan of the dynamic DAWG (plus
// the static keyword set), keeping every term within maxDistance of query.
// The scan fans out across a worker pool once the DAWG holds at least
// parallelFuzzyThreshold terms; below that, a sequential scan wins because
// the parallel setup cost dominates (spec §4.6).
func (d *Dict) QueryFuzzy(query string, maxDistance int, algo types.FuzzyAlgorithm) []types.SymbolMeta {
	terms := d.dynamic.All()

	var hits []fuzzyHit
	var mu sync.Mutex
	score := func(term string) {
		dist := Distance(algo, query, term)
		if dist > maxDistance {
			return
		}
		for _, meta := range d.dynamic.Contexts(term) {
			meta.Name = term
			mu.Lock()
			hits = append(hits, fuzzyHit{meta: meta, distance: dist})
			mu.Unlock()
		}
	}

	if len(terms) >= parallelFuzzyThreshold {
		workers := runtime.NumCPU()
		jobs := make(chan string, len(terms))
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for term := range jobs {
					score(term)
				}
			}()
		}
		for _, term := range terms {
			jobs <- term
		}
		close(jobs)
		wg.Wait()
	} else {
		for _, term := range terms {
			score(term)
		}
	}

	for _, kw := range d.static.Prefix("") {
		dist := Distance(algo, query, kw)
		if dist <= maxDistance {
			hits = append(hits, fuzzyHit{meta: types.SymbolMeta{Name: kw, Kind: types.SymbolKeyword}, distance: dist})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return len(hits[i].meta.Name) < len(hits[j].meta.Name)
	})

	out := make([]types.SymbolMeta, len(hits))
	for i, h := range hits {
		out[i] = h.meta
	}
	return out
}
