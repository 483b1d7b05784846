// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

// Package auth implements the credential and token lifecycle for Ledgerline.
//
// # Domain Types
//
// Domain types (Account, Token) should be created using their constructors:
//   - NewAccount - creates an Account with validated username, email, and hash
//   - NewToken - creates a Token with a validated purpose and future expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service is the orchestrator over the injected collaborators
// (AccountRepository, TokenRepository, PasswordHasher, TokenIssuer,
// Notifier). It implements registration, login, email confirmation,
// forgot/reset password, and confirmation resend.
//
// Errors carry oops codes; ClassOf maps a code to the coarse classification
// (validation, conflict, unauthorized, bad request, storage) that the HTTP
// layer translates to status codes.
package auth
