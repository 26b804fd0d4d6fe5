package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/domain/transaction"
	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/pkg/clock"
	"expo-booth-service/internal/pkg/config"
	"expo-booth-service/internal/pkg/errs"
	"expo-booth-service/internal/usecase/queries"
	"expo-booth-service/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createReservationEndpoint = "POST /booths/reservations"
	idempotencyKeyTTL         = 24 * time.Hour
)

// BoothConflictError carries the contested booths so the API can name them in
// the conflict response.
type BoothConflictError struct {
	Conflicts []booth.Key
}

func (e *BoothConflictError) Error() string {
	labels := make([]string, len(e.Conflicts))
	for i, k := range e.Conflicts {
		labels[i] = k.String()
	}
	return "booths already claimed: " + strings.Join(labels, ", ")
}

func (e *BoothConflictError) Is(target error) bool {
	return target == errs.ErrBoothConflict
}

type LineItemInput struct {
	Sector     string `json:"sector"`
	BoothNum   string `json:"booth_num"`
	PriceCents int64  `json:"price_cents"`
	BoothType  string `json:"booth_type"`
}

type CreateReservationInput struct {
	Items        []LineItemInput `json:"items"`
	ValidityDays *int            `json:"validity_days,omitempty"`
	Remark       *string         `json:"remark,omitempty"`
}

type CreateReservationResult struct {
	Transaction *queries.TransactionView
	IsReplayed  bool
}

type ReservationCommands interface {
	Create(ctx context.Context, input CreateReservationInput, userID uuid.UUID, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	Cancel(ctx context.Context, id uuid.UUID, actor uuid.UUID, isAdmin bool) error
}

type reservationCommandsImpl struct {
	uow                shared.UnitOfWork
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	cfg                config.ReservationConfig
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	reservationQueries queries.ReservationQueries,
	clock clock.Clock,
	cfg config.ReservationConfig,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		clock:              clock,
		cfg:                cfg,
	}
}

func (r *reservationCommandsImpl) Create(
	ctx context.Context,
	input CreateReservationInput,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	entity, err := r.buildTransaction(input, userID)
	if err != nil {
		return nil, err
	}

	requestHash := calculateRequestHash(input)
	now := r.clock.Now()

	resultID := entity.ID()
	replayed := false

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Idempotency().TryInsert(
			ctx, idempotencyKey, userID, createReservationEndpoint, requestHash, now.Add(idempotencyKeyTTL),
		)
		if err != nil {
			return errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		if !inserted {
			existingID, err := r.resolveExistingKey(ctx, tx, idempotencyKey, userID, requestHash)
			if err != nil {
				return err
			}
			resultID = existingID
			replayed = true
			return nil
		}
		return r.claimBooths(ctx, tx, entity, idempotencyKey, userID)
	})
	if err != nil {
		return nil, err
	}

	view, err := r.reservationQueries.GetByIDSystem(ctx, resultID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &CreateReservationResult{Transaction: view, IsReplayed: replayed}, nil
}

func (r *reservationCommandsImpl) buildTransaction(
	input CreateReservationInput,
	userID uuid.UUID,
) (*transaction.BoothTransaction, error) {
	days := r.cfg.DefaultValidityDays
	if input.ValidityDays != nil {
		days = *input.ValidityDays
	}
	if days <= 0 || days > r.cfg.MaxValidityDays {
		return nil, errs.Mark(transaction.ErrInvalidValidity, errs.ErrDomainValidation)
	}

	specs := make([]transaction.LineItemSpec, len(input.Items))
	for i, item := range input.Items {
		specs[i] = transaction.LineItemSpec{
			Sector:     item.Sector,
			BoothNum:   item.BoothNum,
			PriceCents: item.PriceCents,
			BoothType:  item.BoothType,
		}
	}

	entity, err := transaction.NewBoothTransaction(specs, days, input.Remark, userID, r.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return entity, nil
}

// resolveExistingKey decides what an occupied idempotency key means: replay
// the finished result, reject a reused key with a different body, or report
// a still-running first attempt.
func (r *reservationCommandsImpl) resolveExistingKey(
	ctx context.Context,
	tx shared.Tx,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
) (uuid.UUID, error) {
	existing, err := tx.Idempotency().Get(ctx, idempotencyKey, userID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if existing.RequestHash != requestHash {
		return uuid.Nil, errs.ErrDuplicateRequest
	}

	switch existing.Status {
	case "completed":
		if existing.ResultTransactionID == nil {
			return uuid.Nil, errs.New("completed request missing result transaction ID")
		}
		return *existing.ResultTransactionID, nil
	case "processing":
		return uuid.Nil, errs.ErrIdempotencyInProgress
	default:
		return uuid.Nil, errs.New("invalid idempotency key status")
	}
}

// claimBooths is the authoritative exclusion point: catalog rows are locked
// in deterministic order, holdings re-checked under the lock, and the insert
// only happens when every requested booth is free.
func (r *reservationCommandsImpl) claimBooths(
	ctx context.Context,
	tx shared.Tx,
	entity *transaction.BoothTransaction,
	idempotencyKey, userID uuid.UUID,
) error {
	keys := entity.Keys()

	booths, err := tx.Booths().LockByKeys(ctx, keys)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrBoothNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, b := range booths {
		if !b.IsActive() {
			return errs.Mark(
				errs.New(fmt.Sprintf("booth %s is not open for reservation", b.Key())),
				errs.ErrBoothInactive,
			)
		}
	}

	claimed, err := tx.Transactions().FindActiveClaims(ctx, keys, r.clock.Now())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(claimed) > 0 {
		return &BoothConflictError{Conflicts: claimed}
	}

	if err := tx.Transactions().Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return &BoothConflictError{Conflicts: keys}
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := r.enqueueNotification(ctx, tx, entity.ID(), "reservation_created"); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, userID, entity.ID()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor uuid.UUID, isAdmin bool) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Transactions().GetForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrTransactionNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !isAdmin && entity.CreatedBy() != actor {
			return errs.ErrTransactionNotFound
		}

		if err := entity.Cancel(actor, r.clock.Now()); err != nil {
			switch {
			case errors.Is(err, transaction.ErrTransactionPaid):
				return errs.Mark(err, errs.ErrTransactionPaid)
			case errors.Is(err, transaction.ErrAlreadyExpired):
				return errs.Mark(err, errs.ErrTransactionExpired)
			default:
				return errs.Mark(err, errs.ErrDomainValidation)
			}
		}

		if err := tx.Transactions().UpdateStatuses(ctx, entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return r.enqueueNotification(ctx, tx, entity.ID(), "reservation_cancelled")
	})
}

func (r *reservationCommandsImpl) enqueueNotification(
	ctx context.Context,
	tx shared.Tx,
	transactionID uuid.UUID,
	topic string,
) error {
	payload, err := notificationPayload(transactionID, topic)
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", topic, payload, r.clock.Now())
}

func notificationPayload(transactionID uuid.UUID, topic string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"transaction_id": transactionID,
		"type":           topic,
	})
}

func calculateRequestHash(input CreateReservationInput) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
