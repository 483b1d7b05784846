// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

// Package notify provides auth.Notifier implementations.
package notify

import (
	"context"
	"log/slog"

	"github.com/ledgerline/ledgerline/pkg/auth"
)

// LogNotifier writes notifications to the log instead of delivering them.
// Mail transport belongs to the embedding application; this is the default
// collaborator for development and tooling, where the confirmation and
// reset links show up in the log output.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger falls back to the
// default logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the notification and reports success.
func (n *LogNotifier) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	n.logger.InfoContext(ctx, "notification (log-only delivery)",
		"to", toEmail,
		"subject", subject,
	)
	n.logger.DebugContext(ctx, "notification body", "body", htmlBody)
	return nil
}

// Compile-time interface check.
var _ auth.Notifier = (*LogNotifier)(nil)
