package repository

import (
	"context"
	"time"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/domain/transaction"
	"expo-booth-service/internal/infra"
	"expo-booth-service/internal/infra/db"
	"expo-booth-service/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type TransactionRepository struct {
	db db.DBTX
}

func NewTransactionRepository(dbtx db.DBTX) *TransactionRepository {
	return &TransactionRepository{db: dbtx}
}

const insertTransactionSQL = `
INSERT INTO booth_transactions (
	id, total_amount_cents, remark,
	booth_trans_status, payment_status, validity_status,
	validity_period_days, reservation_date, expiration_date,
	created_by, updated_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const insertLineItemSQL = `
INSERT INTO booth_line_items (id, transaction_id, sector, booth_num, price_cents, booth_type)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.BoothTransaction) error {
	_, err := r.db.Exec(ctx, insertTransactionSQL,
		t.ID(), t.TotalCents(), pgconv.StringPtrToPgtype(t.Remark()),
		t.Status().String(), t.Payment().String(), t.Validity().String(),
		t.ValidityDays(), t.ReservedAt(), t.ExpiresAt(),
		t.CreatedBy(), t.UpdatedBy(), t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert booth transaction", err)
	}

	batch := &pgx.Batch{}
	for _, item := range t.Items() {
		batch.Queue(insertLineItemSQL,
			item.ID(), t.ID(), item.Sector(), item.BoothNum(), item.PriceCents(), item.BoothType())
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range t.Items() {
		if _, err := results.Exec(); err != nil {
			return infra.WrapRepoErr("failed to insert booth line item", err)
		}
	}
	return nil
}

// holdingClaimPredicate mirrors BoothTransaction.HoldsBooths: an active
// transaction holds its booths while paid, or while the unpaid validity
// window has not lapsed. The time guard keeps reads correct for holds the
// sweeper has not reclassified yet.
const findActiveClaimsSQL = `
SELECT DISTINCT li.sector, li.booth_num
FROM booth_line_items li
JOIN booth_transactions bt ON bt.id = li.transaction_id
JOIN unnest($1::text[], $2::text[]) AS req(sector, booth_num)
  ON req.sector = li.sector AND req.booth_num = li.booth_num
WHERE bt.booth_trans_status = 'active'
  AND (bt.validity_status = 'paid'
       OR (bt.validity_status = 'active' AND bt.expiration_date > $3))`

func (r *TransactionRepository) FindActiveClaims(ctx context.Context, keys []booth.Key, now time.Time) ([]booth.Key, error) {
	sectors := make([]string, len(keys))
	numbers := make([]string, len(keys))
	for i, k := range keys {
		sectors[i] = k.Sector
		numbers[i] = k.Number
	}

	rows, err := r.db.Query(ctx, findActiveClaimsSQL, sectors, numbers, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find active claims", err)
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

const getTransactionForUpdateSQL = `
SELECT id, remark, booth_trans_status, payment_status, validity_status,
       validity_period_days, reservation_date, expiration_date,
       created_by, updated_by, created_at, updated_at
FROM booth_transactions
WHERE id = $1
FOR UPDATE`

const getLineItemsSQL = `
SELECT id, sector, booth_num, price_cents, booth_type
FROM booth_line_items
WHERE transaction_id = $1
ORDER BY sector, booth_num`

func (r *TransactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*transaction.BoothTransaction, error) {
	var (
		txID                 uuid.UUID
		remark               pgtype.Text
		status               string
		payment              string
		validity             string
		validityDays         int
		reservedAt           time.Time
		expiresAt            time.Time
		createdBy, updatedBy uuid.UUID
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, getTransactionForUpdateSQL, id).Scan(
		&txID, &remark, &status, &payment, &validity,
		&validityDays, &reservedAt, &expiresAt,
		&createdBy, &updatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booth transaction not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booth transaction", err)
	}

	items, err := r.loadLineItems(ctx, txID)
	if err != nil {
		return nil, err
	}

	return transaction.ReconstructBoothTransaction(
		txID, items, pgconv.StringPtrFromPgtype(remark),
		transaction.Status(status), transaction.PaymentStatus(payment), transaction.ValidityStatus(validity),
		validityDays, reservedAt, expiresAt,
		createdBy, updatedBy, createdAt, updatedAt,
	), nil
}

func (r *TransactionRepository) loadLineItems(ctx context.Context, txID uuid.UUID) ([]transaction.LineItem, error) {
	rows, err := r.db.Query(ctx, getLineItemsSQL, txID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load line items", err)
	}
	defer rows.Close()

	var items []transaction.LineItem
	for rows.Next() {
		var (
			itemID     uuid.UUID
			key        booth.Key
			priceCents int64
			boothType  string
		)
		if err := rows.Scan(&itemID, &key.Sector, &key.Number, &priceCents, &boothType); err != nil {
			return nil, infra.WrapRepoErr("failed to scan line item row", err)
		}
		items = append(items, transaction.ReconstructLineItem(itemID, key, priceCents, boothType))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read line item rows", err)
	}
	return items, nil
}

const updateStatusesSQL = `
UPDATE booth_transactions
SET booth_trans_status = $2,
    payment_status = $3,
    validity_status = $4,
    updated_by = $5,
    updated_at = $6
WHERE id = $1`

func (r *TransactionRepository) UpdateStatuses(ctx context.Context, t *transaction.BoothTransaction) error {
	tag, err := r.db.Exec(ctx, updateStatusesSQL,
		t.ID(), t.Status().String(), t.Payment().String(), t.Validity().String(),
		t.UpdatedBy(), t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update transaction statuses", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booth transaction not found", nil, infra.KindNotFound)
	}
	return nil
}

// Lapsed unpaid holds become expired/abandoned/inactive in one statement, so
// the pass is idempotent: a second run matches nothing.
const sweepExpiredSQL = `
UPDATE booth_transactions
SET validity_status = 'expired',
    payment_status = 'abandoned',
    booth_trans_status = 'inactive',
    updated_at = $1
WHERE validity_status = 'active'
  AND payment_status = 'pending'
  AND expiration_date <= $1`

func (r *TransactionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, sweepExpiredSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sweep expired transactions", err)
	}
	return tag.RowsAffected(), nil
}
