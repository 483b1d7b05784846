// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerline Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a uniqueness
// constraint (username or email already taken).
var ErrDuplicate = errors.New("duplicate")

// Class is the coarse error classification the transport layer maps to a
// status code. The auth service never returns raw storage or signing errors
// to callers; every failure carries one of these classes.
type Class string

// Error classifications.
const (
	// ClassValidation marks malformed input to a domain or store operation.
	ClassValidation Class = "validation"
	// ClassConflict marks a duplicate username or email on registration.
	ClassConflict Class = "conflict"
	// ClassUnauthorized marks bad credentials or an unverified email at login.
	ClassUnauthorized Class = "unauthorized"
	// ClassBadRequest marks an invalid/expired link, unknown email, or
	// already-verified email.
	ClassBadRequest Class = "bad_request"
	// ClassStorage marks a store mutation that should have affected exactly
	// one row but did not. Unrecoverable; indicates storage inconsistency,
	// not bad caller input.
	ClassStorage Class = "storage"
	// ClassInternal is the fallback for unclassified failures.
	ClassInternal Class = "internal"
)

// classByCode maps oops codes to their classification. Codes absent from the
// map classify as internal.
var classByCode = map[string]Class{
	"AUTH_EMPTY_PASSWORD":       ClassValidation,
	"AUTH_EMPTY_HASH":           ClassValidation,
	"ACCOUNT_INVALID":           ClassValidation,
	"TOKEN_ENTITY_INVALID":      ClassValidation,
	"AUTH_CONFLICT":             ClassConflict,
	"AUTH_INVALID_CREDENTIALS":  ClassUnauthorized,
	"AUTH_EMAIL_NOT_VERIFIED":   ClassUnauthorized,
	"AUTH_EMAIL_EMPTY":          ClassBadRequest,
	"AUTH_EMAIL_UNKNOWN":        ClassBadRequest,
	"AUTH_EMAIL_INACTIVE":       ClassBadRequest,
	"AUTH_ALREADY_VERIFIED":     ClassBadRequest,
	"AUTH_LINK_INVALID":         ClassBadRequest,
	"AUTH_LINK_EXPIRED":         ClassBadRequest,
	"AUTH_STORAGE_INCONSISTENT": ClassStorage,
}

// ClassOf returns the classification of err. Non-oops errors and unknown
// codes classify as ClassInternal.
func ClassOf(err error) Class {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ClassInternal
	}
	// Code() is untyped; a non-string code classifies as internal.
	code, ok := oopsErr.Code().(string)
	if !ok {
		return ClassInternal
	}
	if class, ok := classByCode[code]; ok {
		return class
	}
	return ClassInternal
}
