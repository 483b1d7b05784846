// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/ledgerline/pkg/auth"
	"github.com/ledgerline/ledgerline/pkg/errutil"
)

// Tests hash at bcrypt.MinCost; DefaultBcryptCost would dominate the test run.

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("round trip verifies", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)

		ok, err := hasher.Verify("correct horse battery staple", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password is a clean mismatch, not an error", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)

		ok, err := hasher.Verify("password124", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password hashes to distinct values", func(t *testing.T) {
		first, err := hasher.Hash("password123")
		require.NoError(t, err)
		second, err := hasher.Hash("password123")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "salts must differ")

		ok, err := hasher.Verify("password123", first)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = hasher.Verify("password123", second)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)

		_, err = hasher.Verify("", "$2a$10$whatever")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("empty hash is rejected", func(t *testing.T) {
		_, err := hasher.Verify("password123", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmptyHash)
	})

	t.Run("malformed hash is an error, not a mismatch", func(t *testing.T) {
		ok, err := hasher.Verify("password123", "not-a-bcrypt-hash")
		require.Error(t, err)
		assert.False(t, ok)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH_FORMAT")
	})
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		cost int
	}{
		{name: "below minimum", cost: bcrypt.MinCost - 1},
		{name: "above maximum", cost: bcrypt.MaxCost + 1},
		{name: "zero", cost: 0},
		{name: "negative", cost: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := auth.NewBcryptHasher(tt.cost)

			hash, err := hasher.Hash("password123")
			require.NoError(t, err)

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, auth.DefaultBcryptCost, cost)
		})
	}
}
