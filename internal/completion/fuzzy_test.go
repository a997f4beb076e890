// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

func TestDistanceStandardIdenticalIsZero(t *testing.T) {
	assert.Equal(t, 0, Distance(types.FuzzyStandard, "greet", "greet"))
}

func TestDistanceStandardOneSubstitution(t *testing.T) {
	assert.Equal(t, 1, Distance(types.FuzzyStandard, "greet", "greot"))
}

func TestDistanceTranspositionCheaperThanStandardForSwap(t *testing.T) {
	std := Distance(types.FuzzyStandard, "abcd", "abdc")
	trans := Distance(types.FuzzyTransposition, "abcd", "abdc")
	assert.Less(t, trans, std)
	assert.Equal(t, 1, trans)
}

func TestDistanceMergeAndSplitHandlesMerge(t *testing.T) {
	// "ab" merges into "x": one merge op away.
	assert.Equal(t, 1, Distance(types.FuzzyMergeAndSplit, "ab", "x"))
}

func TestDistanceMergeAndSplitHandlesSplit(t *testing.T) {
	// "x" splits into "ab": one split op away.
	assert.Equal(t, 1, Distance(types.FuzzyMergeAndSplit, "x", "ab"))
}
