// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Purpose is the intended use of a token.
type Purpose string

// The closed set of token purposes.
const (
	// PurposeAccess is a session access token.
	PurposeAccess Purpose = "access"
	// PurposeOneTime is a single-use token for email verification and
	// password reset links.
	PurposeOneTime Purpose = "ott"
	// PurposeRefresh is declared for future use; no current flow issues it.
	PurposeRefresh Purpose = "refresh"
)

// Valid reports whether p is one of the enumerated purposes.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeAccess, PurposeOneTime, PurposeRefresh:
		return true
	}
	return false
}

// InvalidationBackdate is how far into the past a consumed token's expiry is
// moved. Invalidation is soft: the record is retained, only its expiry
// changes, so "expiry < now" is the single signal for a dead token.
const InvalidationBackdate = 24 * time.Hour

// Token is an opaque, signed, time-limited credential bound to an account
// and a purpose.
type Token struct {
	ID        ulid.ULID
	AccountID int64
	Value     string
	Purpose   Purpose
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewToken creates a validated Token instance. The expiry must lie in the
// future at creation time.
func NewToken(accountID int64, value string, purpose Purpose, expiresAt time.Time) (*Token, error) {
	if accountID <= 0 {
		return nil, oops.Code("TOKEN_ENTITY_INVALID").Errorf("account id must be positive")
	}
	if value == "" {
		return nil, oops.Code("TOKEN_ENTITY_INVALID").Errorf("token value cannot be empty")
	}
	if !purpose.Valid() {
		return nil, oops.Code("TOKEN_ENTITY_INVALID").
			With("purpose", string(purpose)).
			Errorf("unknown token purpose")
	}
	if !expiresAt.After(time.Now()) {
		return nil, oops.Code("TOKEN_ENTITY_INVALID").Errorf("expiry must be in the future")
	}

	now := time.Now()
	return &Token{
		ID:        ulid.Make(),
		AccountID: accountID,
		Value:     value,
		Purpose:   purpose,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsExpired returns true if the token has expired.
func (t *Token) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

// IsExpiredAt returns true if the token would be expired at the given time.
// Useful for testing with deterministic time values.
func (t *Token) IsExpiredAt(at time.Time) bool {
	return at.After(t.ExpiresAt)
}

// Invalidate backdates the expiry so the token reads as expired everywhere.
// Idempotent: invalidating an already-dead token moves its expiry again but
// never revives it.
func (t *Token) Invalidate() {
	now := time.Now()
	t.ExpiresAt = now.Add(-InvalidationBackdate)
	t.UpdatedAt = now
}

// TokenRepository manages token persistence.
type TokenRepository interface {
	// FindActiveByAccountAndPurpose retrieves the latest-expiring, still
	// unexpired token for the (account, purpose) pair.
	// Returns ErrNotFound if none exists.
	FindActiveByAccountAndPurpose(ctx context.Context, accountID int64, purpose Purpose) (*Token, error)

	// FindByValueAndPurpose retrieves the unexpired token matching the exact
	// value and purpose. Used to re-check a presented token against server
	// state. Returns ErrNotFound if absent or already expired.
	FindByValueAndPurpose(ctx context.Context, value string, purpose Purpose) (*Token, error)

	// Save stores a new token and returns its id.
	Save(ctx context.Context, token *Token) (ulid.ULID, error)

	// Invalidate backdates the token's expiry and persists it. Idempotent.
	Invalidate(ctx context.Context, token *Token) error
}
