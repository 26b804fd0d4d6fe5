package commands

import (
	"context"

	"expo-booth-service/internal/domain/transaction"
	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/pkg/clock"
	"expo-booth-service/internal/pkg/errs"
	"expo-booth-service/internal/usecase/queries"
	"expo-booth-service/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentCommands interface {
	// UpdateStatus moves a transaction along the payment state machine and
	// returns the refreshed view. Side effects on the other status axes
	// (paid freezing the window, abandonment releasing booths) ride along in
	// the same transaction.
	UpdateStatus(ctx context.Context, transactionID uuid.UUID, status string, actor uuid.UUID) (*queries.TransactionView, error)
}

type paymentCommandsImpl struct {
	uow                shared.UnitOfWork
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	reservationQueries queries.ReservationQueries,
	clock clock.Clock,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		clock:              clock,
	}
}

func (p *paymentCommandsImpl) UpdateStatus(
	ctx context.Context,
	transactionID uuid.UUID,
	status string,
	actor uuid.UUID,
) (*queries.TransactionView, error) {
	next := transaction.PaymentStatus(status)
	if !next.IsValid() {
		return nil, errs.Mark(transaction.ErrUnknownPaymentKind, errs.ErrDomainValidation)
	}

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Transactions().GetForUpdate(ctx, transactionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrTransactionNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := entity.ApplyPayment(next, actor, p.clock.Now()); err != nil {
			// Mark keeps the TransitionError in the chain so the handler can
			// still read the From/To states off it.
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		if err := tx.Transactions().UpdateStatuses(ctx, entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return p.enqueueNotification(ctx, tx, entity, status)
	})
	if err != nil {
		return nil, err
	}

	view, err := p.reservationQueries.GetByIDSystem(ctx, transactionID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (p *paymentCommandsImpl) enqueueNotification(
	ctx context.Context,
	tx shared.Tx,
	entity *transaction.BoothTransaction,
	status string,
) error {
	payload, err := notificationPayload(entity.ID(), "payment_"+status)
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", "payment_status_changed", payload, p.clock.Now())
}
