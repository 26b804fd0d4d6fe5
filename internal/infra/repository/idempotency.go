package repository

import (
	"context"
	"time"

	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/infra/db"
	"expo-booth-service/internal/pkg/pgconv"
	"expo-booth-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

const tryInsertIdempotencySQL = `
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO NOTHING`

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencySQL, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

const getIdempotencySQL = `
SELECT key, user_id, status, request_hash, result_transaction_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		record   shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, getIdempotencySQL, key, userID).Scan(
		&record.Key, &record.UserID, &record.Status, &record.RequestHash, &resultID, &record.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load idempotency key", err)
	}
	record.ResultTransactionID = pgconv.UUIDPtrFromPgtype(resultID)
	return &record, nil
}

const markCompletedSQL = `
UPDATE idempotency_keys
SET status = 'completed', result_transaction_id = $3, updated_at = now()
WHERE key = $1 AND user_id = $2`

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key, userID uuid.UUID, resultTransactionID uuid.UUID) error {
	_, err := r.db.Exec(ctx, markCompletedSQL, key, userID, resultTransactionID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	return nil
}
