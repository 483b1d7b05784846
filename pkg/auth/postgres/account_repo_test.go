// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/pkg/auth"
)

func accountRow(id int64, username, email string, active bool, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash",
		"first_name", "last_name", "is_active", "created_at", "updated_at",
	}).AddRow(id, username, email, "$2a$10$hash", "Ada", "Lovelace", active, now, now)
}

func TestAccountRepository_FindByUsernameOrEmail(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		username  string
		email     string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantID    int64
		wantErr   error
		errMsg    string
	}{
		{
			name:     "found by username",
			username: "ada",
			email:    "",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("ada", "").
					WillReturnRows(accountRow(7, "ada", "ada@example.com", true, now))
			},
			wantID: 7,
		},
		{
			name:     "found by email",
			username: "",
			email:    "Ada@Example.com",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("", "Ada@Example.com").
					WillReturnRows(accountRow(7, "ada", "ada@example.com", false, now))
			},
			wantID: 7,
		},
		{
			name:     "not found",
			username: "ghost",
			email:    "",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("ghost", "").
					WillReturnRows(pgxmock.NewRows([]string{
						"id", "username", "email", "password_hash",
						"first_name", "last_name", "is_active", "created_at", "updated_at",
					}))
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name:      "both parameters empty",
			username:  "",
			email:     "",
			setupMock: func(_ pgxmock.PgxPoolIface) {},
			errMsg:    "cannot both be empty",
		},
		{
			name:     "database error",
			username: "ada",
			email:    "",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("ada", "").
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.FindByUsernameOrEmail(context.Background(), tt.username, tt.email)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_Save(t *testing.T) {
	account, err := auth.NewAccount("ada", "ada@example.com", "$2a$10$hash", "Ada", "Lovelace")
	require.NoError(t, err)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantID    int64
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful insert returns id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO user_accounts`).
					WithArgs(
						account.Username, account.Email, account.PasswordHash,
						account.FirstName, account.LastName, account.IsActive,
						account.CreatedAt, account.UpdatedAt,
					).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
			},
			wantID: 42,
		},
		{
			name: "unique violation surfaces as duplicate",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO user_accounts`).
					WithArgs(
						account.Username, account.Email, account.PasswordHash,
						account.FirstName, account.LastName, account.IsActive,
						account.CreatedAt, account.UpdatedAt,
					).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: auth.ErrDuplicate,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO user_accounts`).
					WithArgs(
						account.Username, account.Email, account.PasswordHash,
						account.FirstName, account.LastName, account.IsActive,
						account.CreatedAt, account.UpdatedAt,
					).
					WillReturnError(errors.New("disk full"))
			},
			errMsg: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.Save(context.Background(), account)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_UpdatePassword(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful update",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET password_hash`).
					WithArgs(int64(7), "$2a$10$newhash", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "missing account surfaces as not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET password_hash`).
					WithArgs(int64(7), "$2a$10$newhash", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET password_hash`).
					WithArgs(int64(7), "$2a$10$newhash", pgxmock.AnyArg()).
					WillReturnError(errors.New("connection lost"))
			},
			errMsg: "connection lost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			err = repo.UpdatePassword(context.Background(), 7, "$2a$10$newhash")

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepository_SetActive(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful activation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET is_active = TRUE`).
					WithArgs(int64(7), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "already active stays active (idempotent)",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET is_active = TRUE`).
					WithArgs(int64(7), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "missing account surfaces as not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET is_active = TRUE`).
					WithArgs(int64(7), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE user_accounts SET is_active = TRUE`).
					WithArgs(int64(7), pgxmock.AnyArg()).
					WillReturnError(errors.New("timeout"))
			},
			errMsg: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			err = repo.SetActive(context.Background(), 7)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
