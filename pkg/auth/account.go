// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Account represents a registered user's identity and credential record.
// The ID is assigned by storage on Save; a zero ID marks an unsaved account.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates a validated Account instance. Accounts start inactive
// and become active exactly once, through email verification.
// FirstName and LastName are optional and may be empty.
func NewAccount(username, email, passwordHash, firstName, lastName string) (*Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, oops.Code("ACCOUNT_INVALID").Errorf("username cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return nil, oops.Code("ACCOUNT_INVALID").Errorf("email cannot be empty")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, oops.Code("ACCOUNT_INVALID").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &Account{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Activate marks the account's email as verified. The transition is one-way;
// there is no path back to inactive.
func (a *Account) Activate() {
	a.IsActive = true
	a.UpdatedAt = time.Now()
}

// FullName returns the display name composed from the optional name fields.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// AccountRepository manages account persistence.
//
// Mutators that should affect exactly one row (UpdatePassword, SetActive)
// return ErrNotFound when zero rows were affected; the orchestrator treats
// that as a fatal storage inconsistency rather than caller error.
type AccountRepository interface {
	// FindByUsernameOrEmail retrieves the account matching either field,
	// case-insensitively. Either parameter may be empty, but not both.
	// Returns ErrNotFound if no account matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*Account, error)

	// Save stores a new account and returns the storage-assigned id.
	Save(ctx context.Context, account *Account) (int64, error)

	// UpdatePassword replaces the password hash for an account.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// SetActive marks an account's email as verified.
	SetActive(ctx context.Context, id int64) error
}
