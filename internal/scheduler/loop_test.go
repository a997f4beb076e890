// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFlushesDirtyEntriesInStepOrder(t *testing.T) {
	tr := NewTracker(time.Millisecond)
	tr.Mark("a.rho", PriorityNormal, "edit")

	var mu sync.Mutex
	var order []string
	steps := IncrementalSteps{
		LinkSymbolsIncremental: func(ctx context.Context, uris []string) error {
			mu.Lock()
			order = append(order, "link")
			mu.Unlock()
			return nil
		},
		UpdateCompletionIndex: func(ctx context.Context, uris []string) error {
			mu.Lock()
			order = append(order, "completion")
			mu.Unlock()
			return nil
		},
		RefreshPatternIndex: func(ctx context.Context, uris []string) error {
			mu.Lock()
			order = append(order, "pattern")
			mu.Unlock()
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan RunResult, 4)
	done := make(chan struct{})
	go func() {
		Run(ctx, tr, steps, results)
		close(done)
	}()

	var got RunResult
	select {
	case got = <-results:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a flush result")
	}
	cancel()
	<-done

	require.NoError(t, got.Err)
	assert.Equal(t, 1, got.Flushed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"link", "completion", "pattern"}, order)
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	tr := NewTracker(time.Hour) // never flushes on its own
	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan RunResult)

	done := make(chan struct{})
	go func() {
		Run(ctx, tr, IncrementalSteps{}, results)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after context cancellation")
	}
}
