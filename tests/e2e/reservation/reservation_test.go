//go:build e2e

package reservation_test

import (
	"context"
	"net/http"
	stdhttptest "net/http/httptest"
	"sort"
	"sync"
	"testing"

	"expo-booth-service/internal/domain/transaction"
	"expo-booth-service/internal/handler/dto/response"
	"expo-booth-service/internal/usecase"
	"expo-booth-service/tests/common/authtest"
	"expo-booth-service/tests/common/builder"
	"expo-booth-service/tests/common/dbtest"
	"expo-booth-service/tests/common/httptest"
	"expo-booth-service/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/booths/reservations"
	availabilityURL = "/api/booths/availability/check"
	boothsURL       = "/api/booths"
	statisticsURL   = "/api/booths/statistics"
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) exhibitorToken(userID uuid.UUID) string {
	return authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), userID, usecase.RoleExhibitor)
}

func (s *ReservationSuite) adminToken() string {
	return authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), uuid.New(), usecase.RoleAdmin)
}

func idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

func (s *ReservationSuite) createReservation(token string, body any, headers map[string]string) response.ReservationResponse {
	t := s.T()
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, body, token, headers)
	require.Equal(t, http.StatusCreated, w.Code, "reservation creation failed: %s", w.Body.String())

	var created response.ReservationResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &created)
	require.NotEqual(t, uuid.Nil, created.ID)
	return created
}

// =============================================================================
// TestCreateReservation
// =============================================================================

func (s *ReservationSuite) TestCreateReservation() {
	s.Run("exhibitor reserves multiple booths in one transaction", func() {
		t := s.T()

		userID := uuid.New()
		token := s.exhibitorToken(userID)
		reqBody := builder.NewTransactionBuilder().AsMultiBooth().WithRemark("near main entrance").BuildCreateRequestDTO()

		created := s.createReservation(token, reqBody, idempotencyHeader())

		detail := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusOK, detail.Code)

		var actual response.ReservationResponse
		_ = httptest.DecodeResponseBody(t, detail.Body, &actual)

		remark := "near main entrance"
		expected := &response.ReservationResponse{
			TotalCents:     980_000,
			Remark:         &remark,
			Status:         transaction.StatusActive.String(),
			PaymentStatus:  transaction.PaymentPending.String(),
			ValidityStatus: transaction.ValidityActive.String(),
			ValidityDays:   14,
			CreatedBy:      userID,
			UpdatedBy:      userID,
		}

		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.ReservationResponse{},
				"ID", "Items", "ReservedAt", "ExpiresAt", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &actual, opts...); diff != "" {
			t.Errorf("reservation detail mismatch (-want +got):\n%s", diff)
		}
		require.Len(t, actual.Items, 3)
		require.True(t, actual.ExpiresAt.After(actual.ReservedAt))
	})

	s.Run("claimed booth is rejected with the conflicting keys", func() {
		t := s.T()

		first := s.exhibitorToken(uuid.New())
		s.createReservation(first, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		second := s.exhibitorToken(uuid.New())
		reqBody := builder.NewTransactionBuilder().AsMultiBooth().BuildCreateRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, second, idempotencyHeader())
		require.Equal(t, http.StatusConflict, w.Code)

		var body struct {
			Detail struct {
				Conflicts []response.BoothKeyResponse `json:"conflicts"`
			} `json:"detail"`
		}
		_ = httptest.DecodeResponseBody(t, w.Body, &body)
		require.Equal(t, []response.BoothKeyResponse{{Sector: "A", BoothNum: "A-101"}}, body.Detail.Conflicts)
	})

	s.Run("simultaneous claims on one booth admit exactly one winner", func() {
		t := s.T()

		reqBody := builder.NewTransactionBuilder().BuildCreateRequestDTO()
		tokens := []string{
			s.exhibitorToken(uuid.New()),
			s.exhibitorToken(uuid.New()),
		}

		results := make([]*stdhttptest.ResponseRecorder, len(tokens))
		var wg sync.WaitGroup
		for i, token := range tokens {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, token, idempotencyHeader())
			}()
		}
		wg.Wait()

		codes := []int{results[0].Code, results[1].Code}
		sort.Ints(codes)
		require.Equal(t, []int{http.StatusCreated, http.StatusConflict}, codes,
			"exactly one claim must win: got %d and %d", results[0].Code, results[1].Code)

		for _, rec := range results {
			if rec.Code == http.StatusConflict {
				require.Contains(t, rec.Body.String(), "A-101")
			}
		}

		var count int
		err := s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM booth_line_items WHERE sector = 'A' AND booth_num = 'A-101'").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	s.Run("inactive booth cannot be reserved", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		b := builder.NewTransactionBuilder().WithItems(transaction.LineItemSpec{
			Sector: "C", BoothNum: "C-301", PriceCents: 320_000, BoothType: "standard",
		})

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, b.BuildCreateRequestDTO(), token, idempotencyHeader())
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("unknown booth returns not found", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		b := builder.NewTransactionBuilder().WithItems(transaction.LineItemSpec{
			Sector: "Z", BoothNum: "Z-999", PriceCents: 100_000, BoothType: "standard",
		})

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, b.BuildCreateRequestDTO(), token, idempotencyHeader())
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("request without token is unauthorized", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL,
			builder.NewTransactionBuilder().BuildCreateRequestDTO(), "", idempotencyHeader())
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestIdempotency
// =============================================================================

func (s *ReservationSuite) TestIdempotency() {
	s.Run("same key and body replays the original transaction", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		headers := idempotencyHeader()
		reqBody := builder.NewTransactionBuilder().BuildCreateRequestDTO()

		first := s.createReservation(token, reqBody, headers)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, token, headers)
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "true", w.Header().Get("Idempotency-Replayed"))

		var replayed response.ReservationResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &replayed)
		require.Equal(t, first.ID, replayed.ID)

		var count int
		err := s.DB.QueryRow(context.Background(), "SELECT count(*) FROM booth_transactions").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count, "replay must not create a second transaction")
	})

	s.Run("same key with a different body is rejected", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		headers := idempotencyHeader()

		s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), headers)

		altered := builder.NewTransactionBuilder().WithItems(transaction.LineItemSpec{
			Sector: "A", BoothNum: "A-102", PriceCents: 250_000, BoothType: "standard",
		}).BuildCreateRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, altered, token, headers)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("missing key is rejected before any work happens", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL,
			builder.NewTransactionBuilder().BuildCreateRequestDTO(), token)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var count int
		err := s.DB.QueryRow(context.Background(), "SELECT count(*) FROM booth_transactions").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}

// =============================================================================
// TestCancelReservation
// =============================================================================

func (s *ReservationSuite) TestCancelReservation() {
	s.Run("cancelling releases the booths for others", func() {
		t := s.T()

		owner := uuid.New()
		token := s.exhibitorToken(owner)
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, reservationsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		other := s.exhibitorToken(uuid.New())
		s.createReservation(other, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())
	})

	s.Run("paid reservation cannot be cancelled", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		payBody := map[string]any{"transaction_id": created.ID, "payment_status": "paid"}
		pw := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, payBody, s.adminToken())
		require.Equal(t, http.StatusOK, pw.Code)

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, reservationsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("someone else's reservation reads as not found", func() {
		t := s.T()

		owner := s.exhibitorToken(uuid.New())
		created := s.createReservation(owner, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		stranger := s.exhibitorToken(uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, reservationsURL+"/"+created.ID.String(), nil, stranger)
		require.Equal(t, http.StatusNotFound, w.Code)

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, stranger)
		require.Equal(t, http.StatusNotFound, gw.Code)
	})

	s.Run("admin can cancel on behalf of the owner", func() {
		t := s.T()

		owner := s.exhibitorToken(uuid.New())
		created := s.createReservation(owner, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, reservationsURL+"/"+created.ID.String(), nil, s.adminToken())
		require.Equal(t, http.StatusNoContent, w.Code)
	})
}

// =============================================================================
// TestPaymentLifecycle
// =============================================================================

func (s *ReservationSuite) TestPaymentLifecycle() {
	s.Run("paying locks validity, refunding deactivates", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())
		admin := s.adminToken()

		payBody := map[string]any{"transaction_id": created.ID, "payment_status": "paid"}
		pw := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, payBody, admin)
		require.Equal(t, http.StatusOK, pw.Code)

		var paid response.ReservationResponse
		_ = httptest.DecodeResponseBody(t, pw.Body, &paid)
		require.Equal(t, transaction.PaymentPaid.String(), paid.PaymentStatus)
		require.Equal(t, transaction.ValidityPaid.String(), paid.ValidityStatus)
		require.Equal(t, transaction.StatusActive.String(), paid.Status)

		refundBody := map[string]any{"transaction_id": created.ID, "payment_status": "refunded"}
		rw := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, refundBody, admin)
		require.Equal(t, http.StatusOK, rw.Code)

		var refunded response.ReservationResponse
		_ = httptest.DecodeResponseBody(t, rw.Body, &refunded)
		require.Equal(t, transaction.PaymentRefunded.String(), refunded.PaymentStatus)
		require.Equal(t, transaction.StatusInactive.String(), refunded.Status)

		// Refunded transaction no longer holds the booth.
		other := s.exhibitorToken(uuid.New())
		s.createReservation(other, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())
	})

	s.Run("illegal transition is rejected", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		body := map[string]any{"transaction_id": created.ID, "payment_status": "refunded"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, body, s.adminToken())
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), `"currentStatus":"pending"`)
		require.Contains(t, w.Body.String(), `"requestedStatus":"refunded"`)
	})

	s.Run("failed payment can be retried", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())
		admin := s.adminToken()

		for _, status := range []string{"failed", "pending", "paid"} {
			body := map[string]any{"transaction_id": created.ID, "payment_status": status}
			w := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, body, admin)
			require.Equal(t, http.StatusOK, w.Code, "transition to %s failed: %s", status, w.Body.String())
		}
	})

	s.Run("exhibitor may not update payment status", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		body := map[string]any{"transaction_id": created.ID, "payment_status": "paid"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, body, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

// =============================================================================
// TestExpiry
// =============================================================================

func (s *ReservationSuite) TestExpiry() {
	s.Run("lapsed hold is invisible to availability and reclaimed by the sweeper", func() {
		t := s.T()

		holder := uuid.New()
		lapsedID := dbtest.InsertLapsedHold(t, s.DB, holder, "A", "A-103", 250_000)

		checkBody := map[string]any{
			"booths": []map[string]any{
				{"sector": "A", "booth_num": "A-103", "price_cents": 250_000, "booth_type": "standard"},
			},
		}
		token := s.exhibitorToken(uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, availabilityURL, checkBody, token)
		require.Equal(t, http.StatusOK, w.Code)

		var avail response.AvailabilityResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &avail)
		require.True(t, avail.Available, "lapsed hold must not block the booth")

		swept, err := s.Sweeper.SweepExpired(context.Background())
		require.NoError(t, err)
		require.Equal(t, int64(1), swept)

		swept, err = s.Sweeper.SweepExpired(context.Background())
		require.NoError(t, err)
		require.Zero(t, swept, "second sweep must be a no-op")

		var paymentStatus, validityStatus, transStatus string
		err = s.DB.QueryRow(context.Background(),
			"SELECT payment_status, validity_status, booth_trans_status FROM booth_transactions WHERE id = $1",
			lapsedID).Scan(&paymentStatus, &validityStatus, &transStatus)
		require.NoError(t, err)
		require.Equal(t, transaction.PaymentAbandoned.String(), paymentStatus)
		require.Equal(t, transaction.ValidityExpired.String(), validityStatus)
		require.Equal(t, transaction.StatusInactive.String(), transStatus)

		// The booth is free to claim again whether or not the sweep already ran.
		b := builder.NewTransactionBuilder().WithItems(transaction.LineItemSpec{
			Sector: "A", BoothNum: "A-103", PriceCents: 250_000, BoothType: "standard",
		})
		s.createReservation(token, b.BuildCreateRequestDTO(), idempotencyHeader())
	})

	s.Run("paid transaction survives the sweep", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		created := s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		payBody := map[string]any{"transaction_id": created.ID, "payment_status": "paid"}
		pw := httptest.PerformRequest(t, s.Router, http.MethodPatch, reservationsURL, payBody, s.adminToken())
		require.Equal(t, http.StatusOK, pw.Code)

		// Force the window into the past; a paid hold must still not lapse.
		_, err := s.DB.Exec(context.Background(),
			"UPDATE booth_transactions SET expiration_date = now() - interval '1 day' WHERE id = $1", created.ID)
		require.NoError(t, err)

		swept, err := s.Sweeper.SweepExpired(context.Background())
		require.NoError(t, err)
		require.Zero(t, swept)
	})
}

// =============================================================================
// TestCatalogAndStatistics
// =============================================================================

func (s *ReservationSuite) TestCatalogAndStatistics() {
	s.Run("catalog marks claimed booths", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		s.createReservation(token, builder.NewTransactionBuilder().BuildCreateRequestDTO(), idempotencyHeader())

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, boothsURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var booths []response.BoothResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &booths)
		require.Len(t, booths, 6)

		claimed := map[string]bool{}
		for _, b := range booths {
			claimed[b.BoothNum] = b.Claimed
		}
		require.True(t, claimed["A-101"])
		require.False(t, claimed["A-102"])
	})

	s.Run("statistics aggregates sectors for admins only", func() {
		t := s.T()

		token := s.exhibitorToken(uuid.New())
		s.createReservation(token, builder.NewTransactionBuilder().AsMultiBooth().BuildCreateRequestDTO(), idempotencyHeader())

		fw := httptest.PerformRequest(t, s.Router, http.MethodGet, statisticsURL, nil, token)
		require.Equal(t, http.StatusForbidden, fw.Code)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, statisticsURL, nil, s.adminToken())
		require.Equal(t, http.StatusOK, w.Code)

		var stats response.StatisticsResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &stats)

		bySector := map[string]response.SectorStatsResponse{}
		for _, sec := range stats.Sectors {
			bySector[sec.Sector] = sec
		}
		require.Equal(t, int64(2), bySector["A"].Reserved)
		require.Equal(t, int64(1), bySector["A"].Available)
		require.Equal(t, int64(1), bySector["B"].Reserved)
	})

	s.Run("expired token is rejected", func() {
		t := s.T()

		expired := authtest.NewJWTHelper(s.Config.JWT).CreateExpiredToken(t, uuid.New(), usecase.RoleExhibitor)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, boothsURL, nil, expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
