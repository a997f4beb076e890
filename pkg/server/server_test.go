// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/f1r3fly-io/rholang-language-server/internal/config"
)

func TestNewWiresADispatcher(t *testing.T) {
	srv, err := New(config.Defaults(), Deps{Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.NotNil(t, srv.Dispatcher())
	assert.NotNil(t, srv.Indexer())
}

func TestIndexFileWithoutLanguageAdapterReportsError(t *testing.T) {
	srv, err := New(config.Defaults(), Deps{Logger: zap.NewNop()})
	require.NoError(t, err)

	err = srv.IndexFile(context.Background(), "file:///a.rho", []byte("contract a() = { Nil }"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoLanguageAdapter))
}
