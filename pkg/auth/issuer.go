// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// MinSigningSecretLen is the minimum secret length accepted for HS256.
const MinSigningSecretLen = 32

// Claims is the payload embedded in every signed token: the registered JWT
// claims plus the account's identity fields.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"uid"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
}

// TokenIssuer creates and validates signed, time-limited token strings.
type TokenIssuer interface {
	// Issue embeds the claims plus an expiry of now+ttl into a signed,
	// tamper-evident token string.
	Issue(claims Claims, ttl time.Duration) (string, error)

	// Verify checks the signature and shape of a token and returns its
	// claims. It does not compare the embedded expiry against the clock;
	// callers own that check so consumed-token and expired-link paths stay
	// distinguishable.
	Verify(value string) (*Claims, error)

	// ExpiryOf decodes and returns the embedded expiry without verifying
	// the signature.
	ExpiryOf(value string) (time.Time, error)
}

// JWTIssuer implements TokenIssuer with HS256-signed JWTs.
type JWTIssuer struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTIssuer creates a JWTIssuer signing with the given process-wide
// secret. The secret must be at least MinSigningSecretLen bytes.
func NewJWTIssuer(secret []byte) (*JWTIssuer, error) {
	if len(secret) < MinSigningSecretLen {
		return nil, oops.Code("TOKEN_SECRET_TOO_SHORT").
			With("min_bytes", MinSigningSecretLen).
			Errorf("signing secret must be at least %d bytes", MinSigningSecretLen)
	}
	return &JWTIssuer{
		secret: secret,
		// Expiry is compared by the caller, not during parsing.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Issue signs the claims with an expiry of now+ttl.
func (i *JWTIssuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return value, nil
}

// Verify checks the token's signature and returns its claims.
func (i *JWTIssuer) Verify(value string) (*Claims, error) {
	claims := &Claims{}
	token, err := i.parser.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").Wrap(err)
	}
	if !token.Valid {
		return nil, oops.Code("TOKEN_INVALID").Errorf("token signature is invalid")
	}
	return claims, nil
}

// ExpiryOf decodes the embedded expiry without re-verifying the signature.
func (i *JWTIssuer) ExpiryOf(value string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(value, claims); err != nil {
		return time.Time{}, oops.Code("TOKEN_INVALID").Wrap(err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, oops.Code("TOKEN_INVALID").Errorf("token carries no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

// Compile-time interface check.
var _ TokenIssuer = (*JWTIssuer)(nil)
