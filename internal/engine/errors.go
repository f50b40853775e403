package engine

import (
	"errors"
	"fmt"

	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// ErrorCode categorizes execution failures.
//
// Every code is per-transaction and non-fatal: a rejection skips the
// offending event and the run continues. Callers decide whether to log,
// count, or ignore each one.
type ErrorCode string

const (
	// ErrCodeInvalidAmount indicates a non-positive amount on a deposit
	// or withdrawal.
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"

	// ErrCodeInsufficientFunds indicates a withdrawal exceeding the
	// available balance.
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"

	// ErrCodeAccountLocked indicates any transaction against an account
	// locked by a prior chargeback.
	ErrCodeAccountLocked ErrorCode = "ACCOUNT_LOCKED"

	// ErrCodeDuplicateTransaction indicates a deposit reusing an
	// existing transaction ID.
	ErrCodeDuplicateTransaction ErrorCode = "DUPLICATE_TRANSACTION"

	// ErrCodeTransactionNotFound indicates a dispute-chain event
	// referencing a transaction ID with no recorded deposit for the
	// event's client.
	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"

	// ErrCodeClientMismatch indicates a dispute referencing a deposit
	// that belongs to a different client.
	ErrCodeClientMismatch ErrorCode = "CLIENT_MISMATCH"

	// ErrCodeAlreadyDisputed indicates a dispute on a deposit already
	// under dispute.
	ErrCodeAlreadyDisputed ErrorCode = "ALREADY_DISPUTED"

	// ErrCodeNotDisputed indicates a resolve or chargeback on a deposit
	// not currently under dispute.
	ErrCodeNotDisputed ErrorCode = "NOT_DISPUTED"
)

var codeMessages = map[ErrorCode]string{
	ErrCodeInvalidAmount:        "amount must be positive",
	ErrCodeInsufficientFunds:    "withdrawal exceeds available funds",
	ErrCodeAccountLocked:        "account is locked",
	ErrCodeDuplicateTransaction: "transaction id already used by a prior deposit",
	ErrCodeTransactionNotFound:  "no deposit recorded under the referenced transaction id",
	ErrCodeClientMismatch:       "referenced deposit belongs to a different client",
	ErrCodeAlreadyDisputed:      "deposit is already under dispute",
	ErrCodeNotDisputed:          "deposit is not under dispute",
}

// ExecutionError is the engine's rejection of a single transaction.
//
// It carries enough structure for callers to tally rejections by code
// and to log the offending event without re-parsing anything.
type ExecutionError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Kind is the rejected transaction's kind.
	Kind tx.Kind

	// Client identifies the account the event addressed.
	Client tx.ClientID

	// Tx is the rejected transaction's ID (for dispute-chain events,
	// the referenced deposit ID).
	Tx tx.ID
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s (%s client=%d tx=%d)",
		e.Code, codeMessages[e.Code], e.Kind, e.Client, e.Tx)
}

// execErr builds the ExecutionError for a rejected transaction.
func execErr(code ErrorCode, t tx.Transaction) *ExecutionError {
	return &ExecutionError{Code: code, Kind: t.Kind, Client: t.Client, Tx: t.ID}
}

// CodeOf extracts the ErrorCode from an error, handling wrapping via
// errors.As. Returns "" when err is not an ExecutionError.
func CodeOf(err error) ErrorCode {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsAccountLocked returns true if the error is a locked-account
// rejection. Uses errors.As to handle wrapped errors.
func IsAccountLocked(err error) bool {
	return CodeOf(err) == ErrCodeAccountLocked
}
