// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Ledgerline CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgerline",
		Short: "Ledgerline authentication service",
		Long: `Ledgerline is a personal-finance web application; this CLI operates
its authentication service: account registration, login, email confirmation,
and password reset, backed by PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCleanupCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
