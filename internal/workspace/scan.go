// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/f1r3fly-io/rholang-language-server/internal/cpupool"
)

// skipDirs contains directory names ScanRoot never descends into.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"node_modules": true,
}

// ParseFunc parses one file's content, returning whatever the caller's
// indexing pipeline needs (an IR root, extracted symbols, ...).
type ParseFunc func(uri string, content []byte) error

// ScanError records a single file's parse/read failure; a scan continues
// past individual file failures.
type ScanError struct {
	URI string
	Err error
}

func (e ScanError) Error() string { return fmt.Sprintf("%s: %v", e.URI, e.Err) }

// ScanResult summarizes one workspace scan.
type ScanResult struct {
	FilesProcessed int
	Errors         []ScanError
}

// ScanRoot walks the directory tree rooted at dir over fs, finds every
// `.rho` file, and runs parse against each, dispatched across pool under
// spec.md §5's adaptive rule (sequential below the batch-size/work
// threshold, fanned out across the CPU pool above it).
//
// Grounded directly on the teacher's ast.ScanDir: the same "walk, collect
// paths, fan out, collect results without aborting on a single file's
// error" shape, retargeted from `.go`/go-ast to `.rho`/parse, from raw `os`
// calls to an injected afero.Fs so the scan can run against an in-memory
// filesystem under test, and from an ungoverned goroutine pool to the
// shared cpupool.Pool so worker panics are recovered and logged rather than
// crashing the scan.
func ScanRoot(ctx context.Context, fsys afero.Fs, dir string, pool *cpupool.Pool, parse ParseFunc) (*ScanResult, error) {
	var paths []string
	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() {
			if skipDirs[info.Name()] && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".rho") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking workspace: %w", err)
	}

	result := &ScanResult{}
	if len(paths) == 0 {
		return result, nil
	}

	contents := make([][]byte, len(paths))
	totalBytes := 0
	for i, p := range paths {
		content, readErr := afero.ReadFile(fsys, p)
		if readErr != nil {
			result.Errors = append(result.Errors, ScanError{URI: p, Err: readErr})
			continue
		}
		contents[i] = content
		totalBytes += len(content)
	}

	var mu sync.Mutex
	tasks := make([]cpupool.Task, 0, len(paths))
	for i, p := range paths {
		if contents[i] == nil {
			continue
		}
		path, content := p, contents[i]
		tasks = append(tasks, cpupool.Task{
			Label: path,
			Run: func(taskCtx context.Context) error {
				if taskCtx.Err() != nil {
					return taskCtx.Err()
				}
				if err := parse(path, content); err != nil {
					mu.Lock()
					result.Errors = append(result.Errors, ScanError{URI: path, Err: err})
					mu.Unlock()
					return nil
				}
				mu.Lock()
				result.FilesProcessed++
				mu.Unlock()
				return nil
			},
		})
	}

	if err := pool.Run(ctx, tasks, totalBytes); err != nil {
		return result, fmt.Errorf("scanning workspace: %w", err)
	}
	return result, nil
}
