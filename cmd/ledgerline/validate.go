// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/pkg/auth"
	"github.com/ledgerline/ledgerline/pkg/config"
)

// newValidateCmd creates the validate subcommand.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Load the configuration from the file, flags, and environment, check
that it can run the authentication service, and exit. No database
connection is made.`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Construct the crypto collaborators the way an embedding application
	// would, so a secret or cost problem surfaces here rather than at boot.
	if _, err := auth.NewJWTIssuer([]byte(cfg.Auth.JWTSecret)); err != nil {
		return err
	}
	if _, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost).Hash("config-validate"); err != nil {
		return err
	}

	svcCfg := cfg.ServiceConfig()

	cmd.Println("Configuration OK")
	cmd.Printf("  access token TTL:    %s\n", svcCfg.AccessTokenTTL)
	cmd.Printf("  confirm email TTL:   %s\n", svcCfg.ConfirmEmailTTL)
	cmd.Printf("  forgot password TTL: %s\n", svcCfg.ForgotPasswordTTL)
	cmd.Printf("  confirm email URL:   %s\n", svcCfg.ConfirmEmailURL)
	cmd.Printf("  reset password URL:  %s\n", svcCfg.ResetPasswordURL)
	return nil
}
