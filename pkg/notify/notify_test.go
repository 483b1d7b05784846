// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	n := NewLogNotifier(logger)
	err := n.Send(context.Background(), "ada@example.com", "Confirm your Ledgerline email", "<p>Hi</p>")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Confirm your Ledgerline email")
}

func TestLogNotifier_Send_BodyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n := NewLogNotifier(logger)
	require.NoError(t, n.Send(context.Background(), "ada@example.com", "s", "<p>link</p>"))

	assert.Contains(t, buf.String(), "<p>link</p>")
}

func TestNewLogNotifier_NilLoggerFallsBack(t *testing.T) {
	n := NewLogNotifier(nil)
	require.NotNil(t, n)
	require.NoError(t, n.Send(context.Background(), "ada@example.com", "s", "b"))
}
