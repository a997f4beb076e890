// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command rholang-ls is the Rholang/MeTTa language server core's CLI
// front end: it wires internal/config, internal/logging, and pkg/server
// behind cobra commands. JSON-RPC framing is not this command's concern
// (spec.md §1); serve builds and maintains the indexed workspace until its
// context is canceled and does not hand its Dispatcher to any transport.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f1r3fly-io/rholang-language-server/internal/config"
)

const version = "0.1.0"

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "rholang-ls",
		Short: "Rholang/MeTTa language server core",
		Long:  "rholang-ls indexes a Rholang workspace and answers LSP-shaped queries over it.",
	}

	config.BindFlags(rootCmd, v)

	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newIndexCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rholang-ls version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rholang-ls %s\n", version)
		},
	}
}
