package repository

import (
	"context"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/infra/db"
	"expo-booth-service/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type BoothRepository struct {
	db db.DBTX
}

func NewBoothRepository(dbtx db.DBTX) *BoothRepository {
	return &BoothRepository{db: dbtx}
}

const lockBoothsSQL = `
SELECT b.sector, b.booth_num, b.price_cents, b.booth_type, b.status, b.created_at, b.updated_at
FROM booths b
JOIN unnest($1::text[], $2::text[]) AS req(sector, booth_num)
  ON req.sector = b.sector AND req.booth_num = b.booth_num
ORDER BY b.sector, b.booth_num
FOR UPDATE OF b`

// LockByKeys row-locks the catalog entries for every requested booth. The
// deterministic ordering prevents deadlocks between overlapping requests;
// the locks serialize the conflict re-check plus claim insert that follow.
func (r *BoothRepository) LockByKeys(ctx context.Context, keys []booth.Key) ([]*booth.Booth, error) {
	sectors := make([]string, len(keys))
	numbers := make([]string, len(keys))
	for i, k := range keys {
		sectors[i] = k.Sector
		numbers[i] = k.Number
	}

	rows, err := r.db.Query(ctx, lockBoothsSQL, sectors, numbers)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booths", err)
	}
	defer rows.Close()

	found := make(map[booth.Key]*booth.Booth, len(keys))
	for rows.Next() {
		var (
			key        booth.Key
			priceCents int64
			boothType  string
			status     string
			createdAt  pgtype.Timestamptz
			updatedAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&key.Sector, &key.Number, &priceCents, &boothType, &status, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booth row", err)
		}
		found[key] = booth.ReconstructBooth(
			key, priceCents, boothType, booth.Status(status),
			pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
		)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booth rows", err)
	}

	result := make([]*booth.Booth, 0, len(keys))
	for _, k := range keys {
		b, ok := found[k]
		if !ok {
			return nil, infra.WrapRepoErr("booth "+k.String()+" not in catalog", nil, infra.KindNotFound)
		}
		result = append(result, b)
	}
	return result, nil
}
