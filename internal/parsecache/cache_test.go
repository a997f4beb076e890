// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parsecache

import (
	"fmt"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New(0)
	tree, ok := c.Get([]byte("new x in { Nil }"))
	assert.False(t, ok)
	assert.Nil(t, tree)
}

func TestPutThenGetHits(t *testing.T) {
	c := New(0)
	content := []byte("new x in { Nil }")
	tree := &sitter.Tree{}

	c.Put(content, tree)

	got, ok := c.Get(content)
	require.True(t, ok)
	assert.Same(t, tree, got)
}

func TestGetDistinguishesDifferentContent(t *testing.T) {
	c := New(0)
	c.Put([]byte("a"), &sitter.Tree{})

	_, ok := c.Get([]byte("b"))
	assert.False(t, ok, "distinct content must not hit another entry's cache slot")
}

func TestEvictsOldestTenPercentAtCapacity(t *testing.T) {
	c := New(10)
	for i := 0; i < 10; i++ {
		c.Put([]byte(fmt.Sprintf("entry-%d", i)), &sitter.Tree{})
	}
	require.Equal(t, 10, c.Len())

	// Touch every entry but the first so it remains the least recently used.
	for i := 1; i < 10; i++ {
		c.Get([]byte(fmt.Sprintf("entry-%d", i)))
	}

	c.Put([]byte("entry-10"), &sitter.Tree{})

	assert.LessOrEqual(t, c.Len(), 10, "eviction must keep the cache at or under capacity")
	_, ok := c.Get([]byte("entry-0"))
	assert.False(t, ok, "the least recently touched entry should have been evicted")
}

func TestClearEmptiesCache(t *testing.T) {
	c := New(0)
	c.Put([]byte("x"), &sitter.Tree{})
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
