// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadFallsBackToDefaultsWithNoFlagsSet(t *testing.T) {
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, v)

	cfg := Load(v)
	assert.Equal(t, ".", cfg.WorkspaceRoot)
	assert.Equal(t, 10, cfg.ValidatorBatchSize)
	assert.Equal(t, 150*time.Millisecond, cfg.DiagnosticWindow)
}

func TestLoadReflectsExplicitFlag(t *testing.T) {
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, v)

	require := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	require(cmd.PersistentFlags().Set("rnode-host", "rnode.local"))
	require(cmd.PersistentFlags().Set("validator-batch-size", "25"))

	cfg := Load(v)
	assert.Equal(t, "rnode.local", cfg.RNodeHost)
	assert.Equal(t, 25, cfg.ValidatorBatchSize)
}

func TestLoadReflectsEnvironmentVariable(t *testing.T) {
	t.Setenv("RHOLANG_LS_LOG_LEVEL", "debug")

	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, v)

	cfg := Load(v)
	assert.Equal(t, "debug", cfg.LogLevel)
}
