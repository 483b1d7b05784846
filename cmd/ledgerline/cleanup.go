// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline/pkg/auth/postgres"
	"github.com/ledgerline/ledgerline/pkg/config"
	"github.com/ledgerline/ledgerline/internal/logging"
	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/internal/store"
	"github.com/ledgerline/ledgerline/pkg/errutil"
)

// cleanupConfig holds configuration for the cleanup subcommand.
type cleanupConfig struct {
	interval time.Duration
}

// newCleanupCmd creates the cleanup subcommand.
func newCleanupCmd() *cobra.Command {
	cfg := &cleanupConfig{}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired tokens",
		Long: `Delete expired one-time and refresh tokens from the database.

Runs once and exits by default. With --interval, runs as a daemon that
purges on a fixed schedule and serves metrics and health endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCleanup(cmd, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.interval, "interval", 0, "purge interval (0 = run once and exit)")

	return cmd
}

func runCleanup(cmd *cobra.Command, cfg *cleanupConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if appCfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url is required (or set %s)", config.EnvDatabaseURL)
	}

	logging.SetDefault("ledgerline", version, appCfg.Log.Format)

	ctx := cmd.Context()

	st, err := store.Connect(ctx, appCfg.Database.URL, appCfg.Database.ConnectAttempts)
	if err != nil {
		return err
	}
	defer st.Close()

	tokens := postgres.NewTokenRepository(st.Pool())

	if cfg.interval <= 0 {
		deleted, purgeErr := tokens.DeleteExpired(ctx)
		if purgeErr != nil {
			return purgeErr
		}
		cmd.Printf("Deleted %d expired tokens\n", deleted)
		return nil
	}

	return runCleanupDaemon(ctx, cmd, cfg.interval, appCfg.Server.MetricsAddr, st, tokens)
}

// tokenPurger is the slice of the token repository the daemon loop needs.
type tokenPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// runCleanupDaemon purges expired tokens on a fixed schedule until the
// process receives SIGINT or SIGTERM.
func runCleanupDaemon(ctx context.Context, cmd *cobra.Command, interval time.Duration, metricsAddr string, st *store.Store, tokens tokenPurger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer *observability.Server
	if metricsAddr != "" {
		obsServer = observability.NewServer(metricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return st.Pool().Ping(pingCtx) == nil
		})
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Cleanup daemon started")
	slog.Info("cleanup daemon ready", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	purge(ctx, tokens)

loop:
	for {
		select {
		case sig := <-sigChan:
			slog.Info("received shutdown signal", "signal", sig)
			break loop
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down")
			break loop
		case <-ticker.C:
			purge(ctx, tokens)
		}
	}

	slog.Info("shutting down...")

	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// purge deletes expired tokens and logs the outcome. Failures are logged
// and retried on the next tick rather than stopping the daemon.
func purge(ctx context.Context, tokens tokenPurger) {
	deleted, err := tokens.DeleteExpired(ctx)
	if err != nil {
		errutil.LogError(slog.Default(), "token purge failed", err)
		return
	}
	if deleted > 0 {
		slog.Info("expired tokens deleted", "count", deleted)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a failed listener shuts the daemon down.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
