// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package diagnostics

import (
	"context"
	"sync"
	"time"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

const (
	defaultBatchSize   = 10
	defaultBatchWindow = 50 * time.Millisecond
)

// BatchResult is one submitted request's outcome.
type BatchResult struct {
	URI         string
	Diagnostics []types.Diagnostic
	Err         error
}

type batchJob struct {
	req    ValidateRequest
	result chan BatchResult
}

// BatchClient collects validation requests into batches of up to
// batchSize, or flushes early after batchWindow elapses, and sends them to
// the validator via ValidateBatch. Implements spec §4.10's "batched client
// that collects up to N=10 requests or waits up to 50ms, whichever comes
// first; failures fall back to per-request calls."
//
// Grounded on the teacher's internal/llm/client.go SendPrompt/sendWithRetry
// shape (a channel-fed background goroutine owning the transport call),
// generalized from one request at a time to an accumulating batch window.
type BatchClient struct {
	client      ValidatorClient
	validator   *Validator
	batchSize   int
	batchWindow time.Duration

	jobs chan batchJob

	closeOnce sync.Once
	done      chan struct{}
}

// NewBatchClient starts a BatchClient's background collector goroutine.
// Callers must call Close to stop it.
func NewBatchClient(client ValidatorClient, batchSize int, batchWindow time.Duration) *BatchClient {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if batchWindow <= 0 {
		batchWindow = defaultBatchWindow
	}
	bc := &BatchClient{
		client:      client,
		validator:   NewValidator(client, 0),
		batchSize:   batchSize,
		batchWindow: batchWindow,
		jobs:        make(chan batchJob, batchSize*4),
		done:        make(chan struct{}),
	}
	go bc.run()
	return bc
}

// Submit enqueues req and blocks until its batch (or fallback) completes.
func (bc *BatchClient) Submit(ctx context.Context, req ValidateRequest) ([]types.Diagnostic, error) {
	result := make(chan BatchResult, 1)
	select {
	case bc.jobs <- batchJob{req: req, result: result}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-bc.done:
		return bc.validator.Validate(ctx, req.URI, req.Text)
	}

	select {
	case r := <-result:
		return r.Diagnostics, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the background collector. Pending jobs already queued are
// still flushed before it exits.
func (bc *BatchClient) Close() {
	bc.closeOnce.Do(func() { close(bc.done) })
}

func (bc *BatchClient) run() {
	var pending []batchJob
	timer := time.NewTimer(bc.batchWindow)
	defer timer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		bc.flushBatch(pending)
		pending = nil
	}

	for {
		select {
		case job, ok := <-bc.jobs:
			if !ok {
				flush()
				return
			}
			pending = append(pending, job)
			if len(pending) >= bc.batchSize {
				flush()
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(bc.batchWindow)
			}

		case <-timer.C:
			flush()
			timer.Reset(bc.batchWindow)

		case <-bc.done:
			// Drain whatever is already queued, non-blockingly, then exit.
			for {
				select {
				case job := <-bc.jobs:
					pending = append(pending, job)
				default:
					flush()
					return
				}
			}
		}
	}
}

// flushBatch sends pending as one ValidateBatch call; on failure it falls
// back to calling Validate once per request (spec §4.10).
func (bc *BatchClient) flushBatch(pending []batchJob) {
	reqs := make([]ValidateRequest, len(pending))
	for i, j := range pending {
		reqs[i] = j.req
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	byURI, err := bc.client.ValidateBatch(ctx, reqs)
	if err != nil {
		for _, j := range pending {
			diags, err := bc.validator.Validate(ctx, j.req.URI, j.req.Text)
			j.result <- BatchResult{URI: j.req.URI, Diagnostics: diags, Err: err}
		}
		return
	}

	for _, j := range pending {
		j.result <- BatchResult{URI: j.req.URI, Diagnostics: byURI[j.req.URI]}
	}
}
