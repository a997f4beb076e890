// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package server defines the public interface for the Rholang language
// server core: a workspace indexer plus a query dispatcher, wired from a
// Config the way pkg/coder wires an internal/coder.Runner from its own
// Config. Transport (JSON-RPC framing) is not this package's concern; a
// caller drives Dispatcher() from whatever transport it chooses.
package server

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/f1r3fly-io/rholang-language-server/internal/cpupool"
	"github.com/f1r3fly-io/rholang-language-server/internal/ir"
	"github.com/f1r3fly-io/rholang-language-server/internal/query"
	"github.com/f1r3fly-io/rholang-language-server/internal/workspace"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// ErrNoLanguageAdapter is returned for any document a Server is asked to
// index without a LanguageAdapter configured. The grammar productions for
// Rholang/MeTTa are outside this core's scope; a deployment supplies its
// own tree-sitter binding.
var ErrNoLanguageAdapter = errors.New("no language adapter configured")

// LanguageAdapter bundles the language-specific pieces a Server needs to
// turn source bytes into an indexed document: the tree-sitter grammar, the
// CST->IR kind mapping, the literal-node predicate, and the LSP-feature
// Adapter the query dispatcher delegates to for resolver/hover/completion/
// formatting concerns (spec §4.9).
type LanguageAdapter struct {
	Language   *sitter.Language
	KindMapper ir.KindMapper
	IsLiteral  func(types.NodeKind) bool
	Query      query.Adapter
}

// Deps are the already-constructed components a Server composes. Exposed
// so a caller can substitute any of them (a no-op logger under test, a
// shared cpupool.Pool, a language adapter).
type Deps struct {
	Logger   *zap.Logger
	Pool     *cpupool.Pool
	Language LanguageAdapter
}

// Server owns one workspace's indexed state and answers queries against
// it. It does not itself speak JSON-RPC.
type Server struct {
	logger *zap.Logger
	pool   *cpupool.Pool
	lang   LanguageAdapter

	workspace  *workspace.Store
	indexer    *Indexer
	dispatcher *query.Dispatcher
}

// Dispatcher returns the query dispatcher an external transport drives.
func (s *Server) Dispatcher() *query.Dispatcher { return s.dispatcher }

// Indexer returns the component responsible for turning source bytes into
// indexed workspace state (full scans, incremental re-links).
func (s *Server) Indexer() *Indexer { return s.indexer }

// Workspace returns the global symbol store, for callers that need to
// serialize or inspect it directly (e.g. the persisted-cache writer).
func (s *Server) Workspace() *workspace.Store { return s.workspace }

// IndexFile parses, links, and registers one document's symbols,
// contracts, and embedded-language regions. It is the ParseFunc
// workspace.ScanRoot and the incremental scheduler both drive.
func (s *Server) IndexFile(ctx context.Context, uri string, content []byte) error {
	return s.indexer.IndexFile(ctx, uri, content)
}
