// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config defines the server's configuration surface (spec.md §6's
// config table) and loads it via viper, overridable by cobra flags or
// RHOLANG_LS_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "RHOLANG_LS"

// Config is every tunable named in spec.md §6's table, plus the workspace
// root and cache directory SPEC_FULL.md §2.3 adds for the persisted-cache
// and workspace-scan components.
type Config struct {
	WorkspaceRoot string
	CacheDir      string

	LogLevel string

	RNodeHost string
	RNodePort int

	ValidatorBatchSize   int
	ValidatorBatchWindow time.Duration
	ValidatorTimeout     time.Duration

	DebounceWindow        time.Duration
	DiagnosticWindow      time.Duration
	IdleCompactionWindow  time.Duration
	ParseCacheCapacity    int
	ParallelThresholdDocs int
	ParallelThresholdDur  time.Duration
}

// Defaults returns the config populated with every spec.md §6 default.
func Defaults() Config {
	return Config{
		WorkspaceRoot:         ".",
		CacheDir:              ".rholang-ls-cache",
		LogLevel:              "info",
		ValidatorBatchSize:    10,
		ValidatorBatchWindow:  50 * time.Millisecond,
		ValidatorTimeout:      5 * time.Second,
		DebounceWindow:        100 * time.Millisecond,
		DiagnosticWindow:      150 * time.Millisecond,
		IdleCompactionWindow:  500 * time.Millisecond,
		ParseCacheCapacity:    1000,
		ParallelThresholdDocs: 5,
		ParallelThresholdDur:  100 * time.Microsecond,
	}
}

// BindFlags registers every config field as a persistent flag on cmd and
// binds it into v, following the teacher's cmd/go-coder/main.go pattern of
// one Flags().T(...) call per setting plus a matching BindPFlag.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	d := Defaults()

	cmd.PersistentFlags().String("workspace-root", d.WorkspaceRoot, "Workspace root directory")
	cmd.PersistentFlags().String("cache-dir", d.CacheDir, "Persisted warm-start cache directory, relative to the workspace root")
	cmd.PersistentFlags().String("log-level", d.LogLevel, "Structured log severity threshold")
	cmd.PersistentFlags().String("rnode-host", "", "Remote semantic validator host (absent: parse-only validation)")
	cmd.PersistentFlags().Int("rnode-port", 0, "Remote semantic validator port")
	cmd.PersistentFlags().Int("validator-batch-size", d.ValidatorBatchSize, "Validator request batch size")
	cmd.PersistentFlags().Duration("validator-batch-window", d.ValidatorBatchWindow, "Validator batch collection window")
	cmd.PersistentFlags().Duration("validator-timeout", d.ValidatorTimeout, "Per-call validator RPC timeout")
	cmd.PersistentFlags().Duration("debounce-window", d.DebounceWindow, "Dirty-file flush interval")
	cmd.PersistentFlags().Duration("diagnostic-window", d.DiagnosticWindow, "Diagnostic publish debounce window")
	cmd.PersistentFlags().Duration("idle-compaction-window", d.IdleCompactionWindow, "Completion-dict compact trigger")
	cmd.PersistentFlags().Int("parse-cache-capacity", d.ParseCacheCapacity, "Max parse cache entries")
	cmd.PersistentFlags().Int("parallel-threshold-docs", d.ParallelThresholdDocs, "Min batch size for CPU-pool dispatch")
	cmd.PersistentFlags().Duration("parallel-threshold-work", d.ParallelThresholdDur, "Min estimated work for CPU-pool dispatch")

	for _, name := range []string{
		"workspace-root", "cache-dir", "log-level", "rnode-host", "rnode-port",
		"validator-batch-size", "validator-batch-window", "validator-timeout",
		"debounce-window", "diagnostic-window", "idle-compaction-window",
		"parse-cache-capacity", "parallel-threshold-docs", "parallel-threshold-work",
	} {
		v.BindPFlag(name, cmd.PersistentFlags().Lookup(name))
	}
}

// Load reads v's bound flags, config file, and RHOLANG_LS_-prefixed
// environment variables into a Config, falling back to Defaults() for any
// value v was never given.
func Load(v *viper.Viper) Config {
	d := Defaults()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return Config{
		WorkspaceRoot:         getString(v, "workspace-root", d.WorkspaceRoot),
		CacheDir:              getString(v, "cache-dir", d.CacheDir),
		LogLevel:              getString(v, "log-level", d.LogLevel),
		RNodeHost:             getString(v, "rnode-host", d.RNodeHost),
		RNodePort:             getInt(v, "rnode-port", d.RNodePort),
		ValidatorBatchSize:    getInt(v, "validator-batch-size", d.ValidatorBatchSize),
		ValidatorBatchWindow:  getDuration(v, "validator-batch-window", d.ValidatorBatchWindow),
		ValidatorTimeout:      getDuration(v, "validator-timeout", d.ValidatorTimeout),
		DebounceWindow:        getDuration(v, "debounce-window", d.DebounceWindow),
		DiagnosticWindow:      getDuration(v, "diagnostic-window", d.DiagnosticWindow),
		IdleCompactionWindow:  getDuration(v, "idle-compaction-window", d.IdleCompactionWindow),
		ParseCacheCapacity:    getInt(v, "parse-cache-capacity", d.ParseCacheCapacity),
		ParallelThresholdDocs: getInt(v, "parallel-threshold-docs", d.ParallelThresholdDocs),
		ParallelThresholdDur:  getDuration(v, "parallel-threshold-work", d.ParallelThresholdDur),
	}
}

func getString(v *viper.Viper, key, fallback string) string {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetString(key)
}

func getInt(v *viper.Viper, key string, fallback int) int {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetInt(key)
}

func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetDuration(key)
}
