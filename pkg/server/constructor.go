// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package server

import (
	"github.com/f1r3fly-io/rholang-language-server/internal/completion"
	"github.com/f1r3fly-io/rholang-language-server/internal/config"
	"github.com/f1r3fly-io/rholang-language-server/internal/cpupool"
	"github.com/f1r3fly-io/rholang-language-server/internal/patternindex"
	"github.com/f1r3fly-io/rholang-language-server/internal/query"
	"github.com/f1r3fly-io/rholang-language-server/internal/workspace"
)

// rholangKeywords seeds the static completion trie (spec §4.6's "fixed
// static trie of language keywords"). Kept short and explicit rather than
// derived from the grammar, since the grammar itself is out of scope here.
var rholangKeywords = []string{
	"contract", "for", "new", "in", "match", "select", "if", "else",
	"let", "bundle", "Nil", "true", "false",
}

// New constructs every workspace-indexing component and returns a
// ready-to-use Server. cfg is not validated; only its ParseCacheCapacity is
// read. New does not index the workspace; that is
// IndexFile/Indexer's job, driven by the caller (typically cmd/rholang-ls's
// serve command via workspace.ScanRoot for the initial pass).
//
// Grounded on the teacher's pkg/coder.New: construct internal
// dependencies, wrap them behind the public type.
func New(cfg config.Config, deps Deps) (*Server, error) {
	pool := deps.Pool
	if pool == nil {
		pool = cpupool.New(0, nil)
	}

	ws := workspace.New()
	patterns := patternindex.New()
	dict := completion.NewDict(rholangKeywords)

	indexer := NewIndexer(deps.Logger, deps.Language, cfg.ParseCacheCapacity, ws, patterns, dict)

	dispatcher := query.NewDispatcher(ws, patterns, dict, deps.Language.Query)

	return &Server{
		logger:     deps.Logger,
		pool:       pool,
		lang:       deps.Language,
		workspace:  ws,
		indexer:    indexer,
		dispatcher: dispatcher,
	}, nil
}
