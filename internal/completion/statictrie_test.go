// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticTriePrefixMatchesAllWithSharedPrefix(t *testing.T) {
	trie := NewStaticTrie([]string{"contract", "contains", "for", "new"})
	got := trie.Prefix("con")
	assert.ElementsMatch(t, []string{"contract", "contains"}, got)
}

func TestStaticTriePrefixMissReturnsNil(t *testing.T) {
	trie := NewStaticTrie([]string{"new"})
	assert.Nil(t, trie.Prefix("zzz"))
}

func TestStaticTrieEmptyPrefixReturnsEverything(t *testing.T) {
	trie := NewStaticTrie([]string{"new", "for"})
	assert.ElementsMatch(t, []string{"new", "for"}, trie.Prefix(""))
}
