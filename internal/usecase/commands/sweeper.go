package commands

import (
	"context"
	"log/slog"

	"expo-booth-service/internal/pkg/clock"
	"expo-booth-service/internal/pkg/errs"
	"expo-booth-service/internal/usecase/shared"
)

type SweeperCommands interface {
	// SweepExpired reclassifies every lapsed unpaid hold in one bulk pass and
	// returns how many transactions changed. Running it twice in a row is a
	// no-op for the second run.
	SweepExpired(ctx context.Context) (int64, error)
}

type sweeperCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSweeperCommands(uow shared.UnitOfWork, clock clock.Clock) SweeperCommands {
	return &sweeperCommandsImpl{uow: uow, clock: clock}
}

func (s *sweeperCommandsImpl) SweepExpired(ctx context.Context) (int64, error) {
	var swept int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		count, err := tx.Transactions().SweepExpired(ctx, s.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		swept = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		slog.Info("expired booth holds swept", "count", swept)
	}
	return swept, nil
}
