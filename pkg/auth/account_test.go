// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/pkg/auth"
	"github.com/ledgerline/ledgerline/pkg/errutil"
)

func TestNewAccount(t *testing.T) {
	t.Run("valid account starts inactive with zero id", func(t *testing.T) {
		account, err := auth.NewAccount("ada", "ada@example.com", "$2a$10$hash", "Ada", "Lovelace")
		require.NoError(t, err)
		assert.Zero(t, account.ID)
		assert.False(t, account.IsActive)
		assert.Equal(t, "ada", account.Username)
		assert.Equal(t, "ada@example.com", account.Email)
		assert.False(t, account.CreatedAt.IsZero())
		assert.Equal(t, account.CreatedAt, account.UpdatedAt)
	})

	t.Run("name fields are optional", func(t *testing.T) {
		account, err := auth.NewAccount("ada", "ada@example.com", "$2a$10$hash", "", "")
		require.NoError(t, err)
		assert.Empty(t, account.FullName())
	})

	tests := []struct {
		name     string
		username string
		email    string
		hash     string
	}{
		{name: "empty username", username: "", email: "ada@example.com", hash: "$2a$10$hash"},
		{name: "blank username", username: "   ", email: "ada@example.com", hash: "$2a$10$hash"},
		{name: "empty email", username: "ada", email: "", hash: "$2a$10$hash"},
		{name: "empty password hash", username: "ada", email: "ada@example.com", hash: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := auth.NewAccount(tt.username, tt.email, tt.hash, "", "")
			require.Error(t, err)
			assert.Nil(t, account)
			errutil.AssertErrorCode(t, err, "ACCOUNT_INVALID")
		})
	}
}

func TestAccount_Activate(t *testing.T) {
	account, err := auth.NewAccount("ada", "ada@example.com", "$2a$10$hash", "", "")
	require.NoError(t, err)
	require.False(t, account.IsActive)

	account.Activate()
	assert.True(t, account.IsActive)

	// One-way: activating again changes nothing observable.
	account.Activate()
	assert.True(t, account.IsActive)
}

func TestAccount_FullName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		want      string
	}{
		{name: "both names", firstName: "Ada", lastName: "Lovelace", want: "Ada Lovelace"},
		{name: "first only", firstName: "Ada", lastName: "", want: "Ada"},
		{name: "last only", firstName: "", lastName: "Lovelace", want: "Lovelace"},
		{name: "neither", firstName: "", lastName: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &auth.Account{FirstName: tt.firstName, LastName: tt.lastName}
			assert.Equal(t, tt.want, account.FullName())
		})
	}
}
