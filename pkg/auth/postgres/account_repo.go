// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

// Package postgres provides PostgreSQL implementations of auth repositories.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/ledgerline/ledgerline/pkg/auth"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it, which keeps the repository tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByUsernameOrEmail retrieves the account matching either field,
// case-insensitively. Either parameter may be empty, but not both.
func (r *AccountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*auth.Account, error) {
	if username == "" && email == "" {
		return nil, oops.Code("ACCOUNT_QUERY_INVALID").
			Errorf("username and email cannot both be empty")
	}

	row := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash,
		       COALESCE(first_name, ''), COALESCE(last_name, ''),
		       is_active, created_at, updated_at
		FROM user_accounts
		WHERE ($1 <> '' AND LOWER(username) = LOWER($1))
		   OR ($2 <> '' AND LOWER(email) = LOWER($2))
		LIMIT 1
	`, username, email)

	account, err := r.scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("username", username).
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_FIND_FAILED").
			With("operation", "get account by username or email").
			Wrap(err)
	}
	return account, nil
}

// Save stores a new account and returns the storage-assigned id.
// A uniqueness-constraint collision on username or email surfaces as
// auth.ErrDuplicate.
func (r *AccountRepository) Save(ctx context.Context, account *auth.Account) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_accounts (
			username, email, password_hash, first_name, last_name,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
		RETURNING id
	`,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, oops.Code("ACCOUNT_DUPLICATE").
				With("username", account.Username).
				Wrap(auth.ErrDuplicate)
		}
		return 0, oops.Code("ACCOUNT_SAVE_FAILED").
			With("operation", "insert account").
			With("username", account.Username).
			Wrap(err)
	}
	return id, nil
}

// UpdatePassword replaces the password hash for an account. Zero affected
// rows surface as auth.ErrNotFound.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE user_accounts SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, id, passwordHash, time.Now())
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// SetActive marks an account's email as verified. Zero affected rows surface
// as auth.ErrNotFound.
func (r *AccountRepository) SetActive(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE user_accounts SET is_active = TRUE, updated_at = $2
		WHERE id = $1
	`, id, time.Now())
	if err != nil {
		return oops.Code("ACCOUNT_SET_ACTIVE_FAILED").
			With("operation", "set active").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *AccountRepository) scanAccount(row pgx.Row) (*auth.Account, error) {
	account := &auth.Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to wrap with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}
	return account, nil
}

// Compile-time interface check.
var _ auth.AccountRepository = (*AccountRepository)(nil)
