// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/ledgerline/ledgerline/pkg/auth"
)

// TokenRepository implements auth.TokenRepository using PostgreSQL.
type TokenRepository struct {
	db DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// FindActiveByAccountAndPurpose retrieves the unexpired token with the
// latest expiry for the given account and purpose.
func (r *TokenRepository) FindActiveByAccountAndPurpose(ctx context.Context, accountID int64, purpose auth.Purpose) (*auth.Token, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, account_id, value, purpose, expires_at, created_at, updated_at
		FROM tokens
		WHERE account_id = $1 AND purpose = $2 AND expires_at > $3
		ORDER BY expires_at DESC
		LIMIT 1
	`, accountID, string(purpose), time.Now())

	token, err := r.scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TOKEN_NOT_FOUND").
			With("account_id", accountID).
			With("purpose", string(purpose)).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TOKEN_FIND_FAILED").
			With("operation", "get active token by account and purpose").
			With("account_id", accountID).
			Wrap(err)
	}
	return token, nil
}

// FindByValueAndPurpose retrieves the unexpired token with the given value
// and purpose.
func (r *TokenRepository) FindByValueAndPurpose(ctx context.Context, value string, purpose auth.Purpose) (*auth.Token, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, account_id, value, purpose, expires_at, created_at, updated_at
		FROM tokens
		WHERE value = $1 AND purpose = $2 AND expires_at > $3
		LIMIT 1
	`, value, string(purpose), time.Now())

	token, err := r.scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TOKEN_NOT_FOUND").
			With("purpose", string(purpose)).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TOKEN_FIND_FAILED").
			With("operation", "get token by value and purpose").
			Wrap(err)
	}
	return token, nil
}

// Save stores a new token and returns its id.
func (r *TokenRepository) Save(ctx context.Context, token *auth.Token) (ulid.ULID, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tokens (
			id, account_id, value, purpose, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		token.ID.String(),
		token.AccountID,
		token.Value,
		string(token.Purpose),
		token.ExpiresAt,
		token.CreatedAt,
		token.UpdatedAt,
	)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_SAVE_FAILED").
			With("operation", "insert token").
			With("account_id", token.AccountID).
			With("purpose", string(token.Purpose)).
			Wrap(err)
	}
	return token.ID, nil
}

// Invalidate backdates the token's expiry and persists it. Invalidating an
// already-invalidated token backdates it again, which is harmless. A missing
// row surfaces as auth.ErrNotFound.
func (r *TokenRepository) Invalidate(ctx context.Context, token *auth.Token) error {
	token.Invalidate()

	result, err := r.db.Exec(ctx, `
		UPDATE tokens SET expires_at = $2, updated_at = $3
		WHERE id = $1
	`, token.ID.String(), token.ExpiresAt, token.UpdatedAt)
	if err != nil {
		return oops.Code("TOKEN_INVALIDATE_FAILED").
			With("operation", "invalidate token").
			With("id", token.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TOKEN_NOT_FOUND").
			With("id", token.ID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// DeleteExpired removes tokens whose expiry is in the past and returns the
// number of rows deleted. Intended for periodic cleanup.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM tokens WHERE expires_at <= $1
	`, time.Now())
	if err != nil {
		return 0, oops.Code("TOKEN_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired tokens").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// scanToken scans a single row into a Token.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *TokenRepository) scanToken(row pgx.Row) (*auth.Token, error) {
	var (
		token   auth.Token
		id      string
		purpose string
	)
	err := row.Scan(
		&id,
		&token.AccountID,
		&token.Value,
		&purpose,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("TOKEN_SCAN_FAILED").
			With("operation", "scan token").
			Wrap(err)
	}

	parsed, err := ulid.Parse(id)
	if err != nil {
		return nil, oops.Code("TOKEN_SCAN_FAILED").
			With("operation", "parse token id").
			With("id", id).
			Wrap(err)
	}
	token.ID = parsed
	token.Purpose = auth.Purpose(purpose)
	return &token, nil
}

// Compile-time interface check.
var _ auth.TokenRepository = (*TokenRepository)(nil)
