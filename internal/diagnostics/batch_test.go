// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package diagnostics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

type countingBatchClient struct {
	mu         sync.Mutex
	batchCalls int
	batchSizes []int
	err        error
}

func (c *countingBatchClient) Validate(ctx context.Context, text string) ([]types.Diagnostic, error) {
	return []types.Diagnostic{{Message: "fallback:" + text}}, nil
}

func (c *countingBatchClient) ValidateBatch(ctx context.Context, reqs []ValidateRequest) (map[string][]types.Diagnostic, error) {
	c.mu.Lock()
	c.batchCalls++
	c.batchSizes = append(c.batchSizes, len(reqs))
	c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	out := make(map[string][]types.Diagnostic, len(reqs))
	for _, r := range reqs {
		out[r.URI] = []types.Diagnostic{{Message: "batched:" + r.URI}}
	}
	return out, nil
}

func TestBatchClientFlushesOnSizeThreshold(t *testing.T) {
	client := &countingBatchClient{}
	bc := NewBatchClient(client, 3, time.Hour) // window effectively disabled
	defer bc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := bc.Submit(context.Background(), ValidateRequest{URI: "a.rho"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.batchCalls)
	assert.Equal(t, []int{3}, client.batchSizes)
}

func TestBatchClientFlushesOnWindowElapse(t *testing.T) {
	client := &countingBatchClient{}
	bc := NewBatchClient(client, 100, 10*time.Millisecond)
	defer bc.Close()

	diags, err := bc.Submit(context.Background(), ValidateRequest{URI: "a.rho"})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "batched:a.rho", diags[0].Message)
}

func TestBatchClientFallsBackToPerRequestOnBatchFailure(t *testing.T) {
	client := &countingBatchClient{err: errors.New("unavailable")}
	bc := NewBatchClient(client, 2, 5*time.Millisecond)
	defer bc.Close()

	diags, err := bc.Submit(context.Background(), ValidateRequest{URI: "a.rho", Text: "Nil"})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "fallback:Nil", diags[0].Message)
}
