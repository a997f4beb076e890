// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(lvl)
		require.NoError(t, err)
		require.NotNil(t, logger)
		require.NoError(t, logger.Sync())
	}
}

func TestNewFallsBackToInfoForUnknownLevel(t *testing.T) {
	logger, err := New("not-a-level")
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestPanicLoggerRecordAppendsJSONLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panic.log")
	pl, err := NewPanicLogger(path)
	require.NoError(t, err)

	pl.Record("boom", "cpupool/worker-3", "uri=file:///a.rho")
	require.NoError(t, pl.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "worker panic", entry["msg"])
	assert.Equal(t, "cpupool/worker-3", entry["location"])
	assert.Equal(t, "boom", entry["recovered"])
}

func TestPanicLoggerAppendsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panic.log")

	pl1, err := NewPanicLogger(path)
	require.NoError(t, err)
	pl1.Record("first", "loc-a", "")
	require.NoError(t, pl1.Sync())

	pl2, err := NewPanicLogger(path)
	require.NoError(t, err)
	pl2.Record("second", "loc-b", "")
	require.NoError(t, pl2.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
}
