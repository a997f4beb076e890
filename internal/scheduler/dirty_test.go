// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkThenShouldFlushFalseBeforeDebounce(t *testing.T) {
	tr := NewTracker(50 * time.Millisecond)
	tr.Mark("a.rho", PriorityNormal, "edit")
	assert.False(t, tr.ShouldFlush())
}

func TestShouldFlushTrueAfterDebounceElapses(t *testing.T) {
	clock := time.Now()
	tr := NewTracker(10 * time.Millisecond)
	tr.now = func() time.Time { return clock }
	tr.Mark("a.rho", PriorityNormal, "edit")

	clock = clock.Add(20 * time.Millisecond)
	assert.True(t, tr.ShouldFlush())
}

func TestDrainClearsAndSortsByPriority(t *testing.T) {
	tr := NewTracker(time.Millisecond)
	tr.Mark("low.rho", PriorityLow, "edit")
	tr.Mark("high.rho", PriorityHigh, "edit")
	tr.Mark("normal.rho", PriorityNormal, "edit")

	entries := tr.Drain()
	require.Len(t, entries, 3)
	assert.Equal(t, "high.rho", entries[0].URI)
	assert.Equal(t, "normal.rho", entries[1].URI)
	assert.Equal(t, "low.rho", entries[2].URI)
	assert.Equal(t, 0, tr.Len(), "drain empties the set")
}

func TestMarkRefreshesAgeForSameURI(t *testing.T) {
	clock := time.Now()
	tr := NewTracker(10 * time.Millisecond)
	tr.now = func() time.Time { return clock }
	tr.Mark("a.rho", PriorityNormal, "edit")

	clock = clock.Add(20 * time.Millisecond)
	tr.Mark("a.rho", PriorityNormal, "edit again") // refresh resets age
	assert.False(t, tr.ShouldFlush())
}
