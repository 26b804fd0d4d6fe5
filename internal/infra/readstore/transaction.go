package readstore

import (
	"context"
	"time"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/infra/db"
	"expo-booth-service/internal/pkg/pgconv"
	"expo-booth-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type TransactionReadStore struct {
	db db.DBTX
}

func NewTransactionReadStore(dbtx db.DBTX) *TransactionReadStore {
	return &TransactionReadStore{db: dbtx}
}

const findTransactionByIDSQL = `
SELECT id, total_amount_cents, remark, booth_trans_status, payment_status, validity_status,
       validity_period_days, reservation_date, expiration_date,
       created_by, updated_by, created_at, updated_at
FROM booth_transactions
WHERE id = $1`

const findLineItemsSQL = `
SELECT id, sector, booth_num, price_cents, booth_type
FROM booth_line_items
WHERE transaction_id = $1
ORDER BY sector, booth_num`

func (r *TransactionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TransactionView, error) {
	var (
		view   queries.TransactionView
		remark pgtype.Text
	)
	err := r.db.QueryRow(ctx, findTransactionByIDSQL, id).Scan(
		&view.ID, &view.TotalCents, &remark,
		&view.Status, &view.PaymentStatus, &view.ValidityStatus,
		&view.ValidityDays, &view.ReservedAt, &view.ExpiresAt,
		&view.CreatedBy, &view.UpdatedBy, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booth transaction not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booth transaction", err)
	}
	view.Remark = pgconv.StringPtrFromPgtype(remark)

	rows, err := r.db.Query(ctx, findLineItemsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find line items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item queries.LineItemView
		if err := rows.Scan(&item.ID, &item.Sector, &item.BoothNum, &item.PriceCents, &item.BoothType); err != nil {
			return nil, infra.WrapRepoErr("failed to scan line item row", err)
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read line item rows", err)
	}

	return &view, nil
}

const findTransactionsByUserSQL = `
SELECT bt.id, count(li.id), bt.total_amount_cents,
       bt.booth_trans_status, bt.payment_status, bt.validity_status,
       bt.reservation_date, bt.expiration_date
FROM booth_transactions bt
LEFT JOIN booth_line_items li ON li.transaction_id = bt.id
WHERE bt.created_by = $1
GROUP BY bt.id
ORDER BY bt.reservation_date DESC, bt.id DESC`

func (r *TransactionReadStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*queries.TransactionListItem, error) {
	rows, err := r.db.Query(ctx, findTransactionsByUserSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find transactions by user", err)
	}
	defer rows.Close()

	var result []*queries.TransactionListItem
	for rows.Next() {
		var item queries.TransactionListItem
		if err := rows.Scan(
			&item.ID, &item.BoothCount, &item.TotalCents,
			&item.Status, &item.PaymentStatus, &item.ValidityStatus,
			&item.ReservedAt, &item.ExpiresAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan transaction row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read transaction rows", err)
	}
	return result, nil
}

// Same holding predicate as the write side, but without locks: this backs
// the advisory availability check.
const activeClaimsSQL = `
SELECT DISTINCT li.sector, li.booth_num
FROM booth_line_items li
JOIN booth_transactions bt ON bt.id = li.transaction_id
JOIN unnest($1::text[], $2::text[]) AS req(sector, booth_num)
  ON req.sector = li.sector AND req.booth_num = li.booth_num
WHERE bt.booth_trans_status = 'active'
  AND (bt.validity_status = 'paid'
       OR (bt.validity_status = 'active' AND bt.expiration_date > $3))`

func (r *TransactionReadStore) ActiveClaims(ctx context.Context, keys []booth.Key, now time.Time) ([]booth.Key, error) {
	sectors := make([]string, len(keys))
	numbers := make([]string, len(keys))
	for i, k := range keys {
		sectors[i] = k.Sector
		numbers[i] = k.Number
	}

	rows, err := r.db.Query(ctx, activeClaimsSQL, sectors, numbers, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query active claims", err)
	}
	defer rows.Close()

	var claimed []booth.Key
	for rows.Next() {
		var k booth.Key
		if err := rows.Scan(&k.Sector, &k.Number); err != nil {
			return nil, infra.WrapRepoErr("failed to scan claim row", err)
		}
		claimed = append(claimed, k)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read claim rows", err)
	}
	return claimed, nil
}
