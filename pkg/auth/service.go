// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/pkg/errutil"
)

// ServiceConfig carries the immutable per-purpose TTLs and notification
// settings. Loaded once at startup and injected; business logic never reads
// ambient environment state.
type ServiceConfig struct {
	AccessTokenTTL    time.Duration
	ConfirmEmailTTL   time.Duration
	ForgotPasswordTTL time.Duration

	// ConfirmEmailURL and ResetPasswordURL are the frontend pages the
	// notification links point at; email and token are appended as query
	// parameters.
	ConfirmEmailURL  string
	ResetPasswordURL string

	// SenderName signs the notification bodies.
	SenderName string
}

// Service coordinates the credential and token lifecycle. It owns no
// persistent state; it is a stateless coordinator over the injected stores.
type Service struct {
	accounts AccountRepository
	tokens   TokenRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	notifier Notifier
	cfg      ServiceConfig
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(
	accounts AccountRepository,
	tokens TokenRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	notifier Notifier,
	cfg ServiceConfig,
) (*Service, error) {
	return NewServiceWithLogger(accounts, tokens, hasher, issuer, notifier, cfg, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(
	accounts AccountRepository,
	tokens TokenRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	notifier Notifier,
	cfg ServiceConfig,
	logger *slog.Logger,
) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("tokens repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if notifier == nil {
		return nil, oops.Errorf("notifier is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		issuer:   issuer,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// UserInfo is the safe account projection returned to callers. It never
// carries the password hash.
type UserInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// RegisterInput is the input for account registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginResult is the result of a successful login.
type LoginResult struct {
	User      UserInfo
	Token     string
	ExpiresAt time.Time
}

func userInfoOf(account *Account) UserInfo {
	return UserInfo{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

// dummyPasswordHash is verified against when a login email matches no
// account, so the response time does not reveal whether the account exists.
// It is NOT a real credential.
//
//nolint:gosec // G101: intentionally fake hash for timing uniformity, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// RegisterUser creates an inactive account, issues a one-time confirmation
// token, and dispatches the confirmation email best-effort.
func (s *Service) RegisterUser(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	_, err := s.accounts.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err == nil {
		return nil, errConflict()
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "find account by username or email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account, err := NewAccount(input.Username, input.Email, hash, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	id, err := s.accounts.Save(ctx, account)
	if err != nil {
		// A concurrent registration can win the uniqueness race between the
		// lookup above and this insert; the constraint violation is still a
		// plain conflict to the caller.
		if errors.Is(err, ErrDuplicate) {
			return nil, errConflict()
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "save account").
			Wrap(err)
	}
	account.ID = id

	token, err := s.mintToken(ctx, account, PurposeOneTime, s.cfg.ConfirmEmailTTL)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, account, token.Value)
	observability.RecordRegistration()

	info := userInfoOf(account)
	return &info, nil
}

// LoginUser authenticates by email and password and returns the account
// projection plus an access token. An unexpired access token is reused;
// otherwise a fresh one is minted and persisted.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	account, lookupErr := s.accounts.FindByUsernameOrEmail(ctx, "", email)

	// Verify against a fake hash when the account is missing, so missing
	// account and wrong password take the same time and return the same
	// message (no user enumeration).
	targetHash := dummyPasswordHash
	accountExists := false
	if lookupErr == nil {
		targetHash = account.PasswordHash
		accountExists = true
	} else if !errors.Is(lookupErr, ErrNotFound) {
		observability.RecordLogin("error")
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "find account by email").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil && accountExists {
		observability.RecordLogin("error")
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !accountExists || !valid {
		observability.RecordLogin("invalid_credentials")
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("Invalid email or password")
	}

	if !account.IsActive {
		observability.RecordLogin("not_verified")
		return nil, oops.Code("AUTH_EMAIL_NOT_VERIFIED").Errorf("Email is not verified")
	}

	token, err := s.reuseOrMintToken(ctx, account, PurposeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		observability.RecordLogin("error")
		return nil, err
	}

	observability.RecordLogin("success")
	return &LoginResult{
		User:      userInfoOf(account),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// ForgotPassword issues (or reuses) a one-time reset token for an active
// account and dispatches the reset email best-effort.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return errEmailEmpty()
	}

	account, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return oops.Code("AUTH_EMAIL_INACTIVE").Errorf("Email is not verified")
	}

	token, err := s.reuseOrMintToken(ctx, account, PurposeOneTime, s.cfg.ForgotPasswordTTL)
	if err != nil {
		return err
	}

	s.sendReset(ctx, account, token.Value)
	return nil
}

// ResetPassword validates the presented one-time token, replaces the
// account's password hash, and invalidates the token.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword, presented string) error {
	if err := s.checkLink(presented); err != nil {
		return err
	}

	account, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return err
	}

	stored, err := s.storedOneTimeToken(ctx, presented)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errStorageInconsistent("update password", account.ID)
		}
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	return s.invalidateToken(ctx, stored)
}

// VerifyEmail validates the presented one-time token, activates the account,
// and invalidates the token. Activation is one-way.
func (s *Service) VerifyEmail(ctx context.Context, email, presented string) error {
	if err := s.checkLink(presented); err != nil {
		return err
	}

	account, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsActive {
		return errAlreadyVerified()
	}

	stored, err := s.storedOneTimeToken(ctx, presented)
	if err != nil {
		return err
	}

	if err := s.accounts.SetActive(ctx, account.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errStorageInconsistent("set active", account.ID)
		}
		return oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "set active").
			Wrap(err)
	}

	return s.invalidateToken(ctx, stored)
}

// ResendEmailConfirmationLink reissues (or reuses) the confirmation token for
// a not-yet-verified account and dispatches the confirmation email.
func (s *Service) ResendEmailConfirmationLink(ctx context.Context, email string) error {
	if email == "" {
		return errEmailEmpty()
	}

	account, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsActive {
		return errAlreadyVerified()
	}

	token, err := s.reuseOrMintToken(ctx, account, PurposeOneTime, s.cfg.ConfirmEmailTTL)
	if err != nil {
		return err
	}

	s.sendConfirmation(ctx, account, token.Value)
	return nil
}

// === Private helpers ===

func claimsOf(account *Account) Claims {
	return Claims{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}
}

// lookupByEmail finds an account by email, translating absence into the
// user-facing unknown-email error.
func (s *Service) lookupByEmail(ctx context.Context, email string) (*Account, error) {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, "", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_EMAIL_UNKNOWN").Errorf("Email does not exist")
		}
		return nil, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "find account by email").
			Wrap(err)
	}
	return account, nil
}

// checkLink verifies the signature of a presented link token and compares
// its embedded expiry against the clock. Signature and expiry failures stay
// distinct so the caller can ask for a fresh link only when needed.
func (s *Service) checkLink(presented string) error {
	claims, err := s.issuer.Verify(presented)
	if err != nil {
		return errLinkInvalid()
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return oops.Code("AUTH_LINK_EXPIRED").Errorf("Link is expired, please request a new one")
	}
	return nil
}

// storedOneTimeToken re-checks a presented token against server state. A
// structurally valid signature is not enough: the server-side record may
// have been consumed already.
func (s *Service) storedOneTimeToken(ctx context.Context, presented string) (*Token, error) {
	stored, err := s.tokens.FindByValueAndPurpose(ctx, presented, PurposeOneTime)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errLinkInvalid()
		}
		return nil, oops.Code("AUTH_TOKEN_LOOKUP_FAILED").
			With("operation", "find token by value").
			Wrap(err)
	}
	return stored, nil
}

// mintToken issues a fresh signed token for the account and persists it.
// The stored expiry is read back out of the signed value so the row and the
// embedded claim can never disagree.
func (s *Service) mintToken(ctx context.Context, account *Account, purpose Purpose, ttl time.Duration) (*Token, error) {
	value, err := s.issuer.Issue(claimsOf(account), ttl)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("purpose", string(purpose)).
			Wrap(err)
	}

	expiresAt, err := s.issuer.ExpiryOf(value)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("purpose", string(purpose)).
			Wrap(err)
	}

	token, err := NewToken(account.ID, value, purpose, expiresAt)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokens.Save(ctx, token); err != nil {
		return nil, oops.Code("AUTH_TOKEN_SAVE_FAILED").
			With("purpose", string(purpose)).
			Wrap(err)
	}

	observability.RecordTokenIssued(string(purpose))
	return token, nil
}

// reuseOrMintToken returns the currently valid token for the (account,
// purpose) pair, minting one only when none exists.
//
// The read-then-maybe-write sequence is not transactionally guarded: two
// concurrent requests can both observe "no active token" and each mint one.
// The store keeps both rows and lookups return the latest-expiring, so this
// race is accepted rather than locked away.
func (s *Service) reuseOrMintToken(ctx context.Context, account *Account, purpose Purpose, ttl time.Duration) (*Token, error) {
	existing, err := s.tokens.FindActiveByAccountAndPurpose(ctx, account.ID, purpose)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_TOKEN_LOOKUP_FAILED").
			With("operation", "find active token").
			With("purpose", string(purpose)).
			Wrap(err)
	}
	return s.mintToken(ctx, account, purpose, ttl)
}

func (s *Service) invalidateToken(ctx context.Context, token *Token) error {
	if err := s.tokens.Invalidate(ctx, token); err != nil {
		return oops.Code("AUTH_TOKEN_INVALIDATE_FAILED").
			With("token_id", token.ID.String()).
			Wrap(err)
	}
	return nil
}

// sendConfirmation dispatches the email-confirmation notification.
// Best-effort: failures are logged and swallowed, never surfaced.
func (s *Service) sendConfirmation(ctx context.Context, account *Account, tokenValue string) {
	body, err := renderEmail(confirmEmailTmpl, emailData{
		Name:   displayName(account),
		Link:   actionLink(s.cfg.ConfirmEmailURL, account.Email, tokenValue),
		Sender: s.cfg.SenderName,
	})
	if err != nil {
		errutil.LogError(s.logger, "rendering confirmation email failed", err)
		observability.RecordNotification("failed")
		return
	}
	s.dispatch(ctx, account.Email, SubjectConfirmEmail, body)
}

// sendReset dispatches the password-reset notification. Best-effort.
func (s *Service) sendReset(ctx context.Context, account *Account, tokenValue string) {
	body, err := renderEmail(resetPasswordTmpl, emailData{
		Name:   displayName(account),
		Link:   actionLink(s.cfg.ResetPasswordURL, account.Email, tokenValue),
		Sender: s.cfg.SenderName,
	})
	if err != nil {
		errutil.LogError(s.logger, "rendering reset email failed", err)
		observability.RecordNotification("failed")
		return
	}
	s.dispatch(ctx, account.Email, SubjectResetPassword, body)
}

// dispatch hands a notification to the Notifier. There is no retry policy;
// a failed dispatch is logged and dropped.
func (s *Service) dispatch(ctx context.Context, toEmail, subject, body string) {
	if err := s.notifier.Send(ctx, toEmail, subject, body); err != nil {
		errutil.LogError(s.logger, "notification dispatch failed", err)
		observability.RecordNotification("failed")
		return
	}
	observability.RecordNotification("sent")
}

// === Error constructors shared across flows ===
//
// Earlier iterations of this service drifted into per-flow message variants;
// the constructors pin one wording per failure.

func errConflict() error {
	return oops.Code("AUTH_CONFLICT").Errorf("Username or email is already registered")
}

func errEmailEmpty() error {
	return oops.Code("AUTH_EMAIL_EMPTY").Errorf("Email cannot be empty")
}

func errAlreadyVerified() error {
	return oops.Code("AUTH_ALREADY_VERIFIED").Errorf("Email is already verified")
}

func errLinkInvalid() error {
	return oops.Code("AUTH_LINK_INVALID").Errorf("Link is invalid, please request a new one")
}

func errStorageInconsistent(operation string, accountID int64) error {
	return oops.Code("AUTH_STORAGE_INCONSISTENT").
		With("operation", operation).
		With("account_id", accountID).
		Errorf("account mutation affected no rows")
}
