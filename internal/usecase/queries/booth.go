package queries

import (
	"context"
	"time"

	"expo-booth-service/internal/pkg/clock"
	"expo-booth-service/internal/pkg/errs"
)

type BoothQueries interface {
	ListCatalog(ctx context.Context) ([]*BoothView, error)
	Statistics(ctx context.Context) (*StatisticsView, error)
}

type BoothViewRepo interface {
	ListCatalog(ctx context.Context, now time.Time) ([]*BoothView, error)
	Statistics(ctx context.Context, now time.Time) (*StatisticsView, error)
}

type boothQueriesImpl struct {
	repo  BoothViewRepo
	clock clock.Clock
}

func NewBoothQueries(repo BoothViewRepo, clock clock.Clock) BoothQueries {
	return &boothQueriesImpl{repo: repo, clock: clock}
}

func (q *boothQueriesImpl) ListCatalog(ctx context.Context) ([]*BoothView, error) {
	views, err := q.repo.ListCatalog(ctx, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}

func (q *boothQueriesImpl) Statistics(ctx context.Context) (*StatisticsView, error) {
	view, err := q.repo.Statistics(ctx, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}
