// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f1r3fly-io/rholang-language-server/internal/config"
	"github.com/f1r3fly-io/rholang-language-server/internal/cpupool"
	"github.com/f1r3fly-io/rholang-language-server/internal/logging"
	"github.com/f1r3fly-io/rholang-language-server/pkg/server"
)

// newIndexCmd creates the "index" command: build the persisted warm-start
// cache for a workspace without starting the scheduler/diagnostic loops,
// useful for pre-warming the cache in CI or right after a checkout.
func newIndexCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build the persisted warm-start cache for a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(v)

			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			defer logger.Sync()

			srv, err := server.New(cfg, server.Deps{Logger: logger, Pool: cpupool.New(0, nil)})
			if err != nil {
				return fmt.Errorf("constructing server: %w", err)
			}

			fsys := afero.NewOsFs()
			return indexWorkspace(context.Background(), logger, fsys, cfg, srv, cpupool.New(0, nil))
		},
	}
}
