// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/f1r3fly-io/rholang-language-server/internal/cache"
	"github.com/f1r3fly-io/rholang-language-server/internal/config"
	"github.com/f1r3fly-io/rholang-language-server/internal/cpupool"
	"github.com/f1r3fly-io/rholang-language-server/internal/diagnostics"
	"github.com/f1r3fly-io/rholang-language-server/internal/logging"
	"github.com/f1r3fly-io/rholang-language-server/internal/scheduler"
	"github.com/f1r3fly-io/rholang-language-server/internal/workspace"
	"github.com/f1r3fly-io/rholang-language-server/pkg/server"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// newServeCmd creates the "serve" command: build every component, perform
// the initial index (warm-start from the persisted cache when it is still
// valid, otherwise a full scan), then run the dirty-tracker scheduler and
// diagnostic pipeline until canceled.
func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Index the workspace and serve LSP-shaped queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(config.Load(v))
		},
	}
}

func runServe(cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	panicLogPath := filepath.Join(cfg.WorkspaceRoot, cfg.CacheDir, "panic.log")
	if err := os.MkdirAll(filepath.Dir(panicLogPath), 0o755); err != nil {
		return fmt.Errorf("preparing cache dir: %w", err)
	}
	panicLog, err := logging.NewPanicLogger(panicLogPath)
	if err != nil {
		return fmt.Errorf("opening panic log: %w", err)
	}
	defer panicLog.Sync()

	pool := cpupool.New(0, panicLog)
	fsys := afero.NewOsFs()

	// Language grammar bindings are outside this core's scope (spec.md
	// §1); an operator wires their own tree-sitter binding here via
	// server.LanguageAdapter. With none configured, indexing reports
	// ErrNoLanguageAdapter per file rather than silently doing nothing.
	srv, err := server.New(cfg, server.Deps{Logger: logger, Pool: pool})
	if err != nil {
		return fmt.Errorf("constructing server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := indexWorkspace(ctx, logger, fsys, cfg, srv, pool); err != nil {
		logger.Warn("initial indexing reported errors", zap.Error(err))
	}

	tracker := scheduler.NewTracker(cfg.DebounceWindow)
	watcher, err := startWatcher(cfg.WorkspaceRoot, tracker, logger)
	if err != nil {
		logger.Warn("file watcher unavailable, relying on explicit didChange notifications", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	steps := scheduler.IncrementalSteps{
		LinkSymbolsIncremental: func(stepCtx context.Context, uris []string) error {
			return reindexURIs(stepCtx, fsys, srv, uris)
		},
		// The completion dictionary and pattern index are already updated
		// as part of IndexFile within LinkSymbolsIncremental above, so
		// these two steps are no-ops: IndexFile performs all three of
		// spec §4.8's incremental steps in a single per-file pass rather
		// than three separate workspace-wide passes.
		UpdateCompletionIndex: func(context.Context, []string) error { return nil },
		RefreshPatternIndex:   func(context.Context, []string) error { return nil },
	}

	results := make(chan scheduler.RunResult)
	go scheduler.Run(ctx, tracker, steps, results)
	go func() {
		for r := range results {
			if r.Err != nil {
				logger.Warn("scheduler flush reported errors", zap.Int("flushed", r.Flushed), zap.Error(r.Err))
			}
		}
	}()

	pipeline := diagnostics.NewPipeline(cfg.DiagnosticWindow)
	publisher := diagnostics.PublishFunc(func(d types.URIDiagnostics) {
		logger.Info("diagnostics published",
			zap.String("uri", d.URI), zap.Int("version", d.Version), zap.Int("count", len(d.Diagnostics)))
	})
	go diagnostics.Run(ctx, pipeline, publisher)

	logger.Info("rholang-ls serving", zap.String("workspace_root", cfg.WorkspaceRoot))
	<-ctx.Done()
	logger.Info("rholang-ls shutting down")
	return nil
}

// indexWorkspace attempts a warm start from the persisted cache (spec.md
// §6 "Persisted state"); on any miss or mismatch it falls back to a full
// scan and rewrites the cache on completion.
func indexWorkspace(ctx context.Context, logger *zap.Logger, fsys afero.Fs, cfg config.Config, srv *server.Server, pool *cpupool.Pool) error {
	cacheDir := filepath.Join(cfg.WorkspaceRoot, cfg.CacheDir)
	store := cache.New(fsys, cacheDir)

	headHash, gitErr := cache.ResolveHeadHash(cfg.WorkspaceRoot)
	if gitErr != nil {
		logger.Debug("no git state available for cache versioning", zap.Error(gitErr))
	}
	cacheVersion := version + ":" + headHash

	current, statErr := scanFileStates(fsys, cfg.WorkspaceRoot)
	if statErr != nil {
		logger.Warn("computing file states for cache validation failed", zap.Error(statErr))
	}

	if blob, err := store.Load(cacheVersion); err == nil && !cache.Stale(blob, current) {
		for _, sym := range blob.Symbols {
			srv.Workspace().Add(sym.Declaration.URI, sym)
		}
		logger.Info("warm start from persisted cache", zap.Int("symbols", len(blob.Symbols)))
		return nil
	}

	result, err := workspace.ScanRoot(ctx, fsys, cfg.WorkspaceRoot, pool, func(uri string, content []byte) error {
		return srv.IndexFile(ctx, uri, content)
	})
	if err != nil {
		return fmt.Errorf("scanning workspace: %w", err)
	}
	logger.Info("full index complete", zap.Int("files", result.FilesProcessed), zap.Int("errors", len(result.Errors)))

	blob := &cache.Blob{
		Version:    cacheVersion,
		GitHead:    headHash,
		Symbols:    srv.Workspace().All(),
		FileHashes: current,
	}
	if err := store.Save(blob); err != nil {
		logger.Warn("saving persisted cache failed", zap.Error(err))
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed to index", len(result.Errors))
	}
	return nil
}

// scanFileStates computes the (content hash, mtime) pair cache.Stale
// compares against, for every `.rho` file under root.
func scanFileStates(fsys afero.Fs, root string) (map[string]cache.FileState, error) {
	states := make(map[string]cache.FileState)
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".rho") {
			return nil
		}
		content, readErr := afero.ReadFile(fsys, path)
		if readErr != nil {
			return nil
		}
		states[path] = cache.FileState{ContentHash: cache.HashContent(content), ModTime: info.ModTime()}
		return nil
	})
	return states, err
}

// reindexURIs re-reads and re-indexes exactly the dirty URIs the scheduler
// drained, rather than rescanning the whole workspace.
func reindexURIs(ctx context.Context, fsys afero.Fs, srv *server.Server, uris []string) error {
	var firstErr error
	for _, uri := range uris {
		content, err := afero.ReadFile(fsys, uri)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("reading %s: %w", uri, err)
			}
			continue
		}
		if err := srv.IndexFile(ctx, uri, content); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// startWatcher feeds the scheduler's dirty tracker from filesystem change
// notifications, the `workspace/didChangeWatchedFiles` equivalent named in
// SPEC_FULL.md's domain stack table.
func startWatcher(root string, tracker *scheduler.Tracker, logger *zap.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if name == "vendor" || name == ".git" || name == "node_modules" {
				return filepath.SkipDir
			}
			if addErr := watcher.Add(path); addErr != nil {
				logger.Debug("watching directory failed", zap.String("path", path), zap.Error(addErr))
			}
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".rho") {
					continue
				}
				reason := "FileWatcher"
				priority := scheduler.PriorityNormal
				if event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0 {
					priority = scheduler.PriorityHigh
				}
				tracker.Mark(event.Name, priority, reason)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", zap.Error(werr))
			}
		}
	}()

	return watcher, nil
}
