// Package common defines shared constants and sentinel errors used across
// gophlocker components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Temporal / ordering errors.
var (
	ErrUnlockInThePast           = errors.New("the given unlock date is in the past")
	ErrInvalidTimestamp          = errors.New("invalid timestamp")
	ErrCannotUnlockToEarlierDate = errors.New("cannot unlock to an earlier date")
	ErrTooEarlyToWithdraw        = errors.New("too early to withdraw")
	ErrLinearEmissionDisabled    = errors.New("linear emission is disabled")
	ErrStartEmissionAfterUnlock  = errors.New("start of emission must precede the unlock date")
)

// Authorization errors.
var (
	ErrSignerMismatch    = errors.New("signer does not match")
	ErrOwnerMismatch     = errors.New("caller is not the locker owner")
	ErrAuthorityMismatch = errors.New("derived authority does not match")
	ErrVaultMismatch     = errors.New("vault does not belong to the locker")
	ErrMintMismatch      = errors.New("mint does not match")
	ErrNotAdmin          = errors.New("caller is not the admin")
)

// Arithmetic errors.
var (
	ErrIntegerOverflow = errors.New("integer overflow")
	ErrMulDivOverflow  = errors.New("multiplication overflow")
	ErrInvalidPeriod   = errors.New("invalid emission period")
)

// Fund-movement integrity errors.
var (
	ErrInvalidAmountTransferred = errors.New("invalid amount transferred")
)

// State errors.
var (
	ErrNothingToLock            = errors.New("nothing to lock")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidOwner             = errors.New("owner must not be empty")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrAccountClosed            = errors.New("account is closed")
	ErrNonZeroBalance           = errors.New("account balance is not zero")
	ErrConfigAlreadyInitialized = errors.New("config already initialized")
)
