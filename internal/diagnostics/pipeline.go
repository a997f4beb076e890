// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package diagnostics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

const defaultWindow = 150 * time.Millisecond

// Publisher is whatever sends a finalized diagnostic set onward (typically
// the LSP transport's publishDiagnostics notification).
type Publisher interface {
	Publish(types.URIDiagnostics)
}

// PublishFunc adapts a plain function to Publisher.
type PublishFunc func(types.URIDiagnostics)

// Publish implements Publisher.
func (f PublishFunc) Publish(d types.URIDiagnostics) { f(d) }

// Pipeline merges parse and validator diagnostics per URI and publishes
// the latest version seen within a debounce window, dropping any publish
// whose version is superseded before the window elapses (spec §4.10,
// §5 "Diagnostic publications per URI are monotone in version").
//
// Grounded on internal/scheduler's dirty Tracker: the same "mark, age-gate,
// drain" shape, here keyed by URI with a payload (the diagnostic set)
// instead of a boolean dirty flag.
type Pipeline struct {
	mu      sync.Mutex
	pending map[string]pendingEntry
	window  time.Duration
	now     func() time.Time
}

type pendingEntry struct {
	diag     types.URIDiagnostics
	markedAt time.Time
}

// NewPipeline builds a Pipeline with the given debounce window (zero
// selects the spec default of 150ms).
func NewPipeline(window time.Duration) *Pipeline {
	if window <= 0 {
		window = defaultWindow
	}
	return &Pipeline{pending: make(map[string]pendingEntry), window: window, now: time.Now}
}

// Submit records a candidate diagnostic set for uri, replacing any pending
// entry only if version is not older (monotone-in-version).
func (p *Pipeline) Submit(diag types.URIDiagnostics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	existing, ok := p.pending[diag.URI]
	if ok && diag.Version < existing.diag.Version {
		return
	}
	p.pending[diag.URI] = pendingEntry{diag: diag, markedAt: p.now()}
}

// MergeParseAndValidator combines a document's parse-derived diagnostics
// with whatever the external validator returned into one set and submits
// it under the given version.
func (p *Pipeline) MergeParseAndValidator(uri string, version int, parseDiags, validatorDiags []types.Diagnostic) {
	merged := make([]types.Diagnostic, 0, len(parseDiags)+len(validatorDiags))
	merged = append(merged, parseDiags...)
	merged = append(merged, validatorDiags...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Range.Start.Byte < merged[j].Range.Start.Byte
	})
	p.Submit(types.URIDiagnostics{URI: uri, Version: version, Diagnostics: merged})
}

// Drain removes and returns every entry whose age has reached the debounce
// window, ready for publication.
func (p *Pipeline) Drain() []types.URIDiagnostics {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var ready []types.URIDiagnostics
	for uri, e := range p.pending {
		if now.Sub(e.markedAt) >= p.window {
			ready = append(ready, e.diag)
			delete(p.pending, uri)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].URI < ready[j].URI })
	return ready
}

// Len reports how many URIs currently have a pending diagnostic set.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// pipelineTick is the poll interval Run uses to check for drainable
// entries, matching the scheduler's own 100ms tick (spec §4.8/§5).
const pipelineTick = 100 * time.Millisecond

// Run ticks until ctx is canceled, draining and publishing whatever has
// aged past the debounce window on each tick.
func Run(ctx context.Context, p *Pipeline, publisher Publisher) {
	ticker := time.NewTicker(pipelineTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, d := range p.Drain() {
				publisher.Publish(d)
			}
		}
	}
}
