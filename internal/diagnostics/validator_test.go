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

type fakeClient struct {
	mu       sync.Mutex
	delay    time.Duration
	diags    []types.Diagnostic
	err      error
	calls    int
	canceled int
}

func (f *fakeClient) Validate(ctx context.Context, text string) ([]types.Diagnostic, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.mu.Lock()
			f.canceled++
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.diags, nil
}

func (f *fakeClient) ValidateBatch(ctx context.Context, reqs []ValidateRequest) (map[string][]types.Diagnostic, error) {
	out := make(map[string][]types.Diagnostic, len(reqs))
	for _, r := range reqs {
		out[r.URI] = f.diags
	}
	return out, f.err
}

func TestValidatorReturnsClientDiagnostics(t *testing.T) {
	client := &fakeClient{diags: []types.Diagnostic{{Message: "ok"}}}
	v := NewValidator(client, time.Second)

	diags, err := v.Validate(context.Background(), "file:///a.rho", "Nil")
	require.NoError(t, err)
	assert.Equal(t, "ok", diags[0].Message)
}

func TestValidatorTimeoutProducesInformationDiagnostic(t *testing.T) {
	client := &fakeClient{delay: 50 * time.Millisecond}
	v := NewValidator(client, 5*time.Millisecond)

	diags, err := v.Validate(context.Background(), "file:///a.rho", "Nil")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, types.SeverityInformation, diags[0].Severity)
}

func TestValidatorWrapsTransportFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	v := NewValidator(client, time.Second)

	_, err := v.Validate(context.Background(), "file:///a.rho", "Nil")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidatorUnavailable)
}

func TestValidatorCancelsPriorInFlightCallForSameURI(t *testing.T) {
	client := &fakeClient{delay: 200 * time.Millisecond}
	v := NewValidator(client, time.Second)

	done := make(chan struct{})
	go func() {
		v.Validate(context.Background(), "file:///a.rho", "first")
		close(done)
	}()
	time.Sleep(20 * time.Millisecond) // let the first call register its token

	diags, err := v.Validate(context.Background(), "file:///a.rho", "second")
	require.NoError(t, err)
	_ = diags

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first Validate call never returned after being canceled")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.GreaterOrEqual(t, client.canceled, 1)
}
