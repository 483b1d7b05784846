// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

// Package store provides the PostgreSQL connection pool and schema
// management for Ledgerline.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection defaults. A fresh deployment often races the database container;
// the ping is retried with exponential backoff before giving up.
const (
	DefaultConnectAttempts = 5
	connectBackoffBase     = 500 * time.Millisecond
)

// Store owns the PostgreSQL connection pool shared by the repositories.
type Store struct {
	pool *pgxpool.Pool
}

// Connect creates a connection pool and verifies connectivity with a
// retried ping. attempts <= 0 falls back to DefaultConnectAttempts.
func Connect(ctx context.Context, databaseURL string, attempts int) (*Store, error) {
	if databaseURL == "" {
		return nil, oops.Code("DB_CONFIG_INVALID").Errorf("database URL is required")
	}
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(connectBackoffBase)) //nolint:gosec // attempts is a small positive flag value
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", attempts).
			Wrap(err)
	}

	return &Store{pool: pool}, nil
}

// Pool returns the underlying connection pool for repository construction.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
