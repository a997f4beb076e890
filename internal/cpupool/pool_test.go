// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cpupool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/internal/logging"
)

func TestShouldDispatchBelowDocThreshold(t *testing.T) {
	assert.False(t, ShouldDispatch(4, 1_000_000))
}

func TestShouldDispatchBelowWorkThreshold(t *testing.T) {
	assert.False(t, ShouldDispatch(5, 0))
}

func TestShouldDispatchAboveBothThresholds(t *testing.T) {
	assert.True(t, ShouldDispatch(10, 4000))
}

func TestRunExecutesAllTasksSequentiallyBelowThreshold(t *testing.T) {
	p := New(4, nil)
	var count int32
	tasks := []Task{
		{Label: "a", Run: func(ctx context.Context) error { atomic.AddInt32(&count, 1); return nil }},
		{Label: "b", Run: func(ctx context.Context) error { atomic.AddInt32(&count, 1); return nil }},
	}
	require.NoError(t, p.Run(context.Background(), tasks, 0))
	assert.Equal(t, int32(2), count)
}

func TestRunDispatchesAllTasksWhenAboveThreshold(t *testing.T) {
	p := New(4, nil)
	var count int32
	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = Task{Label: "t", Run: func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}}
	}
	require.NoError(t, p.Run(context.Background(), tasks, 100_000))
	assert.Equal(t, int32(20), count)
}

func TestRunPropagatesTaskError(t *testing.T) {
	p := New(2, nil)
	sentinel := errors.New("boom")
	tasks := []Task{
		{Label: "ok", Run: func(ctx context.Context) error { return nil }},
		{Label: "bad", Run: func(ctx context.Context) error { return sentinel }},
	}
	err := p.Run(context.Background(), tasks, 0)
	require.Error(t, err)
}

func TestRunRecoversPanicAndLogsIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panic.log")
	panicLog, err := logging.NewPanicLogger(path)
	require.NoError(t, err)

	p := New(2, panicLog)
	tasks := []Task{
		{Label: "crasher", Run: func(ctx context.Context) error { panic("kaboom") }},
	}
	err = p.Run(context.Background(), tasks, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	require.NoError(t, panicLog.Sync())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "crasher")
}

func TestEstimateWorkMatchesFormula(t *testing.T) {
	got := EstimateWork(10, 400)
	assert.Equal(t, 200*1000, int(got)) // 10*10us (100us) + 400/4 us (100us) = 200us in ns
}
