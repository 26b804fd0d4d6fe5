package readstore

import (
	"context"
	"time"

	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/infra/db"
	"expo-booth-service/internal/usecase/queries"
)

type BoothReadStore struct {
	db db.DBTX
}

func NewBoothReadStore(dbtx db.DBTX) *BoothReadStore {
	return &BoothReadStore{db: dbtx}
}

const listCatalogSQL = `
SELECT b.sector, b.booth_num, b.price_cents, b.booth_type, b.status, b.updated_at,
       EXISTS (
           SELECT 1
           FROM booth_line_items li
           JOIN booth_transactions bt ON bt.id = li.transaction_id
           WHERE li.sector = b.sector AND li.booth_num = b.booth_num
             AND bt.booth_trans_status = 'active'
             AND (bt.validity_status = 'paid'
                  OR (bt.validity_status = 'active' AND bt.expiration_date > $1))
       ) AS claimed
FROM booths b
ORDER BY b.sector, b.booth_num`

func (r *BoothReadStore) ListCatalog(ctx context.Context, now time.Time) ([]*queries.BoothView, error) {
	rows, err := r.db.Query(ctx, listCatalogSQL, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booth catalog", err)
	}
	defer rows.Close()

	var result []*queries.BoothView
	for rows.Next() {
		var view queries.BoothView
		if err := rows.Scan(
			&view.Sector, &view.BoothNum, &view.PriceCents, &view.BoothType,
			&view.Status, &view.UpdatedAt, &view.Claimed,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booth row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booth rows", err)
	}
	return result, nil
}

const sectorStatsSQL = `
SELECT b.sector,
       count(*) AS total,
       count(*) FILTER (WHERE EXISTS (
           SELECT 1
           FROM booth_line_items li
           JOIN booth_transactions bt ON bt.id = li.transaction_id
           WHERE li.sector = b.sector AND li.booth_num = b.booth_num
             AND bt.booth_trans_status = 'active'
             AND (bt.validity_status = 'paid'
                  OR (bt.validity_status = 'active' AND bt.expiration_date > $1))
       )) AS reserved
FROM booths b
WHERE b.status = 'active'
GROUP BY b.sector
ORDER BY b.sector`

const paymentStatsSQL = `
SELECT payment_status, count(*)
FROM booth_transactions
GROUP BY payment_status
ORDER BY payment_status`

const validityStatsSQL = `
SELECT validity_status, count(*)
FROM booth_transactions
GROUP BY validity_status
ORDER BY validity_status`

func (r *BoothReadStore) Statistics(ctx context.Context, now time.Time) (*queries.StatisticsView, error) {
	view := &queries.StatisticsView{}

	rows, err := r.db.Query(ctx, sectorStatsSQL, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query sector statistics", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s queries.SectorStats
		if err := rows.Scan(&s.Sector, &s.Total, &s.Reserved); err != nil {
			return nil, infra.WrapRepoErr("failed to scan sector statistics row", err)
		}
		s.Available = s.Total - s.Reserved
		view.Sectors = append(view.Sectors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read sector statistics rows", err)
	}

	view.ByPayment, err = r.statusCounts(ctx, paymentStatsSQL)
	if err != nil {
		return nil, err
	}
	view.ByValidity, err = r.statusCounts(ctx, validityStatsSQL)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (r *BoothReadStore) statusCounts(ctx context.Context, sql string) ([]queries.StatusCount, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query status counts", err)
	}
	defer rows.Close()

	var counts []queries.StatusCount
	for rows.Next() {
		var c queries.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan status count row", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read status count rows", err)
	}
	return counts, nil
}
