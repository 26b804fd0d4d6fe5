package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Booth catalog errors
	ErrBoothNotFound = errors.New("booth not found")
	ErrBoothInactive = errors.New("booth not open for reservation")

	// Reservation errors
	ErrTransactionNotFound = errors.New("booth transaction not found")
	ErrBoothConflict       = errors.New("booth already claimed by an active transaction")
	ErrEmptyLineItems      = errors.New("reservation requires at least one booth")
	ErrInvalidLineItem     = errors.New("invalid booth line item")

	// Lifecycle errors
	ErrTransactionPaid    = errors.New("paid transaction cannot be cancelled")
	ErrTransactionExpired = errors.New("transaction already expired")
	ErrInvalidTransition  = errors.New("illegal payment status transition")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")
	ErrDuplicateRequest       = errors.New("duplicate request with different parameters")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
