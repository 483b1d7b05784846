// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPurger records DeleteExpired calls for daemon-loop tests.
type stubPurger struct {
	calls   int
	deleted int64
	err     error
}

func (p *stubPurger) DeleteExpired(_ context.Context) (int64, error) {
	p.calls++
	return p.deleted, p.err
}

func TestCleanupCommand_Properties(t *testing.T) {
	cmd := newCleanupCmd()

	assert.Equal(t, "cleanup", cmd.Use)
	assert.Contains(t, cmd.Short, "expired", "Short description should mention expired tokens")
	assert.Contains(t, cmd.Long, "daemon", "Long description should mention daemon mode")
}

func TestCleanupCommand_Flags(t *testing.T) {
	cmd := newCleanupCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "--interval", "Help missing --interval flag")
}

func TestCleanupCommand_NoDatabaseURL(t *testing.T) {
	configFile = ""
	t.Setenv("DATABASE_URL", "")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"cleanup"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.Error(t, cmd.Execute())
}

func TestRunCleanupDaemon_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	purger := &stubPurger{deleted: 3}

	cmd := newCleanupCmd()
	cmd.SetOut(new(bytes.Buffer))

	err := runCleanupDaemon(ctx, cmd, time.Hour, "", nil, purger)
	require.NoError(t, err)

	// The immediate purge runs before the loop observes cancellation.
	assert.Equal(t, 1, purger.calls)
}

func TestPurge_ErrorDoesNotPanic(t *testing.T) {
	purger := &stubPurger{err: errors.New("connection reset")}

	purge(context.Background(), purger)

	assert.Equal(t, 1, purger.calls)
}
