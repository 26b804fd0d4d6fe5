package shared

import (
	"context"
	"time"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/domain/transaction"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Booths() BoothRepository
	Transactions() TransactionRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
}

// BoothRepository is the write-side view of the booth catalog. LockByKeys is
// the mutual-exclusion point for concurrent reservation attempts: it locks
// catalog rows in deterministic order so two overlapping claims serialize.
type BoothRepository interface {
	LockByKeys(ctx context.Context, keys []booth.Key) ([]*booth.Booth, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *transaction.BoothTransaction) error
	// FindActiveClaims returns the subset of keys currently held by an
	// active transaction at the given instant.
	FindActiveClaims(ctx context.Context, keys []booth.Key, now time.Time) ([]booth.Key, error)
	// GetForUpdate loads the transaction with its line items under a row
	// lock so lifecycle changes serialize.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*transaction.BoothTransaction, error)
	// UpdateStatuses persists the status triple plus audit fields after a
	// domain transition.
	UpdateStatuses(ctx context.Context, t *transaction.BoothTransaction) error
	// SweepExpired reclassifies every lapsed unpaid hold in one idempotent
	// pass and reports how many rows changed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key for this request; false means another request
	// with the same key got there first (or already finished).
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, userID uuid.UUID, resultTransactionID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Status              string
	RequestHash         string
	ResultTransactionID *uuid.UUID
	ExpiresAt           time.Time
}
