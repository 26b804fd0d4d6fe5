package queries

import (
	"context"
	"strings"
	"time"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/pkg/clock"
	"expo-booth-service/internal/pkg/errs"

	"github.com/google/uuid"
)

// BoothRef is one candidate in an availability check request. Price and type
// ride along so the check validates the same shape the create path accepts.
type BoothRef struct {
	Sector     string
	BoothNum   string
	PriceCents int64
	BoothType  string
}

type ReservationQueries interface {
	// GetByID enforces owner-or-admin access. A foreign transaction reads as
	// not found so existence does not leak.
	GetByID(ctx context.Context, actor uuid.UUID, isAdmin bool, id uuid.UUID) (*TransactionView, error)
	// GetByIDSystem skips the access check. Reserved for internal
	// read-after-write and idempotency replay paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*TransactionView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*TransactionListItem, error)
	// CheckAvailability is advisory: the answer can be stale the moment it is
	// produced, only the create path decides authoritatively.
	CheckAvailability(ctx context.Context, refs []BoothRef) (*AvailabilityView, error)
}

type TransactionViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TransactionView, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*TransactionListItem, error)
	ActiveClaims(ctx context.Context, keys []booth.Key, now time.Time) ([]booth.Key, error)
}

type reservationQueriesImpl struct {
	repo  TransactionViewRepo
	clock clock.Clock
}

func NewReservationQueries(repo TransactionViewRepo, clock clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, clock: clock}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, isAdmin bool, id uuid.UUID) (*TransactionView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.CreatedBy != actor {
		return nil, errs.ErrTransactionNotFound
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*TransactionView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTransactionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*TransactionListItem, error) {
	items, err := q.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return items, nil
}

func (q *reservationQueriesImpl) CheckAvailability(ctx context.Context, refs []BoothRef) (*AvailabilityView, error) {
	if len(refs) == 0 {
		return nil, errs.Mark(errs.New("availability check requires at least one booth"), errs.ErrEmptyLineItems)
	}

	keys := make([]booth.Key, 0, len(refs))
	seen := make(map[booth.Key]struct{}, len(refs))
	for _, ref := range refs {
		key, err := booth.NewKey(ref.Sector, ref.BoothNum)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidLineItem)
		}
		if ref.PriceCents <= 0 {
			return nil, errs.Mark(errs.New("booth price must be positive"), errs.ErrInvalidLineItem)
		}
		if strings.TrimSpace(ref.BoothType) == "" {
			return nil, errs.Mark(errs.New("booth type cannot be blank"), errs.ErrInvalidLineItem)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	claimed, err := q.repo.ActiveClaims(ctx, keys, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &AvailabilityView{
		Available: len(claimed) == 0,
		Conflicts: claimed,
	}, nil
}
