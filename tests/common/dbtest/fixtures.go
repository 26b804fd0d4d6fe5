//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestBooth inserts a catalog booth, upserting on the (sector, booth_num)
// key so tests can call it repeatedly.
func CreateTestBooth(t *testing.T, db DBLike, sector, boothNum string, priceCents int64, boothType, status string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO booths (sector, booth_num, price_cents, booth_type, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sector, booth_num) DO UPDATE SET
		    price_cents = EXCLUDED.price_cents,
		    booth_type  = EXCLUDED.booth_type,
		    status      = EXCLUDED.status,
		    updated_at  = now()`,
		sector, boothNum, priceCents, boothType, status)
	require.NoError(t, err)
}

// InsertLapsedHold writes a pending transaction whose validity window already
// closed, as if the sweeper had not visited it yet. Returns the transaction ID.
func InsertLapsedHold(t *testing.T, db DBLike, userID uuid.UUID, sector, boothNum string, priceCents int64) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	transactionID := uuid.New()
	reservedAt := time.Now().UTC().Add(-15 * 24 * time.Hour)
	expiredAt := time.Now().UTC().Add(-24 * time.Hour)

	_, err := db.Exec(ctx, `
		INSERT INTO booth_transactions (
		    id, total_amount_cents, remark,
		    booth_trans_status, payment_status, validity_status,
		    validity_period_days, reservation_date, expiration_date,
		    created_by, updated_by, created_at, updated_at
		) VALUES ($1, $2, NULL, 'active', 'pending', 'active', 14, $3, $4, $5, $5, $3, $3)`,
		transactionID, priceCents, reservedAt, expiredAt, userID)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO booth_line_items (id, transaction_id, sector, booth_num, price_cents, booth_type)
		VALUES ($1, $2, $3, $4, $5, 'standard')`,
		uuid.New(), transactionID, sector, boothNum, priceCents)
	require.NoError(t, err)

	return transactionID
}

// SeedReferenceData inserts the booth catalog every e2e scenario assumes.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO booths (sector, booth_num, price_cents, booth_type, status) VALUES
		    ('A', 'A-101', 250000, 'standard', 'active'),
		    ('A', 'A-102', 250000, 'standard', 'active'),
		    ('A', 'A-103', 250000, 'standard', 'active'),
		    ('B', 'B-201', 480000, 'corner',   'active'),
		    ('B', 'B-202', 480000, 'corner',   'active'),
		    ('C', 'C-301', 320000, 'standard', 'inactive')
		ON CONFLICT (sector, booth_num) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables and reseeds the booth catalog.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
