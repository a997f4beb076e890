// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scheduler

import (
	"context"
	"time"
)

const tickInterval = 100 * time.Millisecond

// IncrementalSteps are the three callbacks the scheduler loop runs, in
// order, over a drained batch (spec §4.8):
//  1. LinkSymbolsIncremental re-indexes the workspace symbol store for uris
//     (the §4.5 remove-then-readd sequence, one pass per uri).
//  2. UpdateCompletionIndex pushes the fresh symbol set for each uri into
//     the completion dictionary (§4.6).
//  3. RefreshPatternIndex re-registers the contracts declared in uris
//     against the pattern index (§4.4).
type IncrementalSteps struct {
	LinkSymbolsIncremental func(ctx context.Context, uris []string) error
	UpdateCompletionIndex  func(ctx context.Context, uris []string) error
	RefreshPatternIndex    func(ctx context.Context, uris []string) error
}

// RunResult reports what the most recent flush did.
type RunResult struct {
	Flushed int // number of URIs drained and processed
	Err     error
}

// Run drives one scheduler loop: every tick, if the tracker should flush,
// drain it and run the incremental steps in order over the batch. Results
// are reported on results (closed when ctx is done); Run blocks until ctx
// is canceled.
func Run(ctx context.Context, tracker *Tracker, steps IncrementalSteps, results chan<- RunResult) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	defer close(results)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !tracker.ShouldFlush() {
				continue
			}
			entries := tracker.Drain()
			if len(entries) == 0 {
				continue
			}
			uris := make([]string, len(entries))
			for i, e := range entries {
				uris[i] = e.URI
			}
			results <- RunResult{Flushed: len(uris), Err: runSteps(ctx, steps, uris)}
		}
	}
}

// runSteps executes the three incremental steps in the spec's fixed order,
// stopping at the first error and checking for cancellation between steps
// the same way the teacher's feedback.Run checks ctx.Err() between retries.
func runSteps(ctx context.Context, steps IncrementalSteps, uris []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if steps.LinkSymbolsIncremental != nil {
		if err := steps.LinkSymbolsIncremental(ctx, uris); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if steps.UpdateCompletionIndex != nil {
		if err := steps.UpdateCompletionIndex(ctx, uris); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if steps.RefreshPatternIndex != nil {
		if err := steps.RefreshPatternIndex(ctx, uris); err != nil {
			return err
		}
	}
	return nil
}
