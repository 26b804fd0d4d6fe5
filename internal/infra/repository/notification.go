package repository

import (
	"context"
	"time"

	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/infra/db"

	"github.com/google/uuid"
)

// NotificationRepository enqueues outbound jobs (confirmation mails, invoice
// generation) for the external delivery worker. The job row shares the store
// transaction with the state change that caused it.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

const createJobSQL = `
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5, 'pending')`

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, createJobSQL, uuid.New(), kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}
