// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parsecache caches parsed concrete syntax trees keyed by document
// content, short-circuiting re-parsing when a buffer round-trips to content
// already seen (e.g. an undo that returns to a prior state).
// Implements: spec §3, §4.2 (C2 Parse cache).
package parsecache

import (
	"bytes"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"
)

// DefaultCapacity is the entry count at which Cache begins evicting its
// oldest 10%, per spec §3 "Parse cache" ("default 1000 entries").
const DefaultCapacity = 1000

// entry pairs a cached CST with the exact content it was parsed from (so a
// hash collision can be detected and treated as a miss) and the sequence
// number it was last touched at, used to find the oldest 10% at eviction.
type entry struct {
	content []byte
	tree    *sitter.Tree
	touched uint64
}

// Cache is a concurrent content-hash-keyed cache of parsed CSTs.
//
// Implements: spec §3 "Parse cache": "A concurrent mapping from 64-bit
// content hash to (original_content, CST); on hit the stored content is
// compared byte-for-byte before returning to guard against hash collisions.
// Eviction: LRU-ish, drop oldest 10% when at capacity."
//
// Grounded on the teacher's Extractor.cache (internal/repomap/extract.go),
// generalized from (path, mod-time) keying to (content-hash) keying since
// the spec caches by content identity, not file identity.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]*entry
	clock    uint64
}

// New constructs a Cache with the given capacity. A non-positive capacity
// selects DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[uint64]*entry, capacity),
	}
}

// hash computes the 64-bit content hash used as the cache key.
func (c *Cache) hash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Get returns the cached tree for content, or (nil, false) on a miss. A hash
// collision (same key, different bytes) is treated as a miss rather than
// returning a stale tree for the wrong content.
func (c *Cache) Get(content []byte) (*sitter.Tree, bool) {
	key := c.hash(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !bytes.Equal(e.content, content) {
		return nil, false
	}
	c.clock++
	e.touched = c.clock
	return e.tree, true
}

// Put inserts tree under content's hash, evicting the oldest 10% of entries
// first if the cache is at capacity.
func (c *Cache) Put(content []byte, tree *sitter.Tree) {
	key := c.hash(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.clock++
	c.entries[key] = &entry{content: append([]byte(nil), content...), tree: tree, touched: c.clock}
}

// evictOldestLocked drops the least-recently-touched 10% of entries. Called
// with c.mu held.
func (c *Cache) evictOldestLocked() {
	n := len(c.entries) / 10
	if n < 1 {
		n = 1
	}

	keys := make([]uint64, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].touched < c.entries[keys[j]].touched
	})
	for _, k := range keys[:n] {
		delete(c.entries, k)
	}
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*entry, c.capacity)
	c.clock = 0
}
