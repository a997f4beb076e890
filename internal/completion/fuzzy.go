// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package completion

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// Distance computes the edit distance between a and b under the requested
// algorithm. Standard is the same diff-based Levenshtein distance the
// teacher's internal/editor/matcher.go similarity uses; Transposition and
// MergeAndSplit extend it with edit operations diffmatchpatch has no
// concept of, so they fall back to a hand-rolled dynamic-programming pass.
func Distance(algo types.FuzzyAlgorithm, a, b string) int {
	switch algo {
	case types.FuzzyTransposition:
		return damerauLevenshtein(a, b)
	case types.FuzzyMergeAndSplit:
		return mergeAndSplitDistance(a, b)
	default:
		return standardLevenshtein(a, b)
	}
}

// standardLevenshtein mirrors matcher.go's similarity: run the Myers diff
// and count the edit script length it implies.
func standardLevenshtein(a, b string) int {
	if a == b {
		return 0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}

// damerauLevenshtein is the restricted (optimal string alignment) form of
// the Damerau-Levenshtein DP: insert, delete, substitute, and
// adjacent-transposition each cost 1, and no substring is edited twice.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := min(del, ins, sub)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = min(best, d[i-2][j-2]+cost)
			}
			d[i][j] = best
		}
	}
	return d[n][m]
}

// mergeAndSplitDistance extends Damerau-Levenshtein with two further
// operations useful for OCR/typo-style noise: merging two source runes
// into one target rune, and splitting one source rune into two target
// runes, each at cost 1.
func mergeAndSplitDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			best := min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = min(best, d[i-2][j-2]+cost)
			}
			// merge: two source runes collapse onto one target rune.
			if i > 1 {
				best = min(best, d[i-2][j-1]+1)
			}
			// split: one source rune expands into two target runes.
			if j > 1 {
				best = min(best, d[i-1][j-2]+1)
			}
			d[i][j] = best
		}
	}
	return d[n][m]
}
