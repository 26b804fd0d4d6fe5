package components

import (
	"expo-booth-service/internal/infra/db"
	"expo-booth-service/internal/infra/readstore"
	"expo-booth-service/internal/infra/uow"
	"expo-booth-service/internal/usecase/queries"
	"expo-booth-service/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewTransactionReadStore,
			fx.As(new(queries.TransactionViewRepo)),
		),
		fx.Annotate(
			readstore.NewBoothReadStore,
			fx.As(new(queries.BoothViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
