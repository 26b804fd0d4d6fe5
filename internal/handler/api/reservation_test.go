//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"expo-booth-service/internal/domain/booth"
	"expo-booth-service/internal/domain/transaction"
	"expo-booth-service/internal/handler/api"
	resdto "expo-booth-service/internal/handler/dto/response"
	"expo-booth-service/internal/pkg/errs"
	"expo-booth-service/internal/usecase"
	"expo-booth-service/internal/usecase/commands"
	"expo-booth-service/internal/usecase/queries"
	"expo-booth-service/tests/common/builder"
	"expo-booth-service/tests/common/httptest"
	"expo-booth-service/tests/common/testutil"
	commandsmock "expo-booth-service/tests/mock/commands"
	queriesmock "expo-booth-service/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockPayments *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	userID       uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockPayments = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockPayments, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", usecase.RoleExhibitor)
		c.Next()
	}

	s.router.POST("/booths/reservations", authMiddleware, s.handler.CreateReservation)
	s.router.GET("/booths/reservations", authMiddleware, s.handler.GetUserReservations)
	s.router.GET("/booths/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.DELETE("/booths/reservations/:id", authMiddleware, s.handler.CancelReservation)
	s.router.PATCH("/booths/reservations", authMiddleware, s.handler.UpdatePaymentStatus)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

// ================================================================================
// TestCreateReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/booths/reservations"

	b := builder.NewTransactionBuilder().AsMultiBooth()
	reqBody := b.BuildCreateRequestDTO()
	returnView := b.BuildView()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(&commands.CreateReservationResult{Transaction: returnView}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		s.Equal(http.StatusCreated, rec.Code)
		s.Empty(rec.Header().Get("Idempotency-Replayed"))

		var resp resdto.ReservationResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Equal(returnView.ID, resp.ID)
		s.Equal(returnView.TotalCents, resp.TotalCents)
		s.Len(resp.Items, len(returnView.Items))
	})

	s.Run("success: replayed request is marked", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(&commands.CreateReservationResult{Transaction: returnView, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		s.Equal(http.StatusCreated, rec.Code)
		s.Equal("true", rec.Header().Get("Idempotency-Replayed"))
	})

	s.Run("unauthorized without token", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", idempotencyHeader())
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("missing idempotency key returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed idempotency key returns 400", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("request validation", func() {
		cases := []struct {
			name       string
			mutate     func(map[string]any)
			expectCode int
		}{
			{name: "missing items", mutate: testutil.Field("items", nil), expectCode: http.StatusBadRequest},
			{name: "empty items", mutate: testutil.Field("items", []any{}), expectCode: http.StatusBadRequest},
			{name: "zero validity days", mutate: testutil.Field("validity_days", 0), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "bearer-token", idempotencyHeader())
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})

	s.Run("conflict names the contested booths", func() {
		conflict := &commands.BoothConflictError{Conflicts: []booth.Key{{Sector: "A", Number: "A-101"}}}
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(nil, conflict).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		s.Equal(http.StatusConflict, rec.Code)
		s.Contains(rec.Body.String(), "A-101")
	})

	s.Run("unknown booth returns 404", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(nil, errs.ErrBoothNotFound).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("inactive booth returns 422", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(nil, errs.ErrBoothInactive).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("duplicate request with different body returns 409", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(nil, errs.ErrDuplicateRequest).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idempotencyHeader())
		s.Equal(http.StatusConflict, rec.Code)
	})
}

// ================================================================================
// TestGetReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	returnView := builder.NewTransactionBuilder().BuildView()
	url := "/booths/reservations/" + returnView.ID.String()

	s.Run("success: returns 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var resp resdto.ReservationResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Equal(returnView.ID, resp.ID)
	})

	s.Run("malformed id returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/booths/reservations/not-a-uuid", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("foreign transaction reads as 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, returnView.ID).
			Return(nil, errs.ErrTransactionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

// ================================================================================
// TestGetUserReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetUserReservations() {
	url := "/booths/reservations"

	s.Run("success: returns own reservations", func() {
		first := builder.NewTransactionBuilder().BuildListItem()
		second := builder.NewTransactionBuilder().AsMultiBooth().BuildListItem()
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID).
			Return([]*queries.TransactionListItem{first, second}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var resp []*resdto.ReservationListResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Len(resp, 2)
		s.Equal(first.ID, resp[0].ID)
	})
}

// ================================================================================
// TestCancelReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	id := uuid.New()
	url := "/booths/reservations/" + id.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.userID, false).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("paid transaction returns 422", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.userID, false).
			Return(errs.ErrTransactionPaid).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("expired transaction returns 422", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.userID, false).
			Return(errs.ErrTransactionExpired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown transaction returns 404", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.userID, false).
			Return(errs.ErrTransactionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

// ================================================================================
// TestUpdatePaymentStatus
// ================================================================================

func (s *ReservationHandlerTestSuite) TestUpdatePaymentStatus() {
	url := "/booths/reservations"
	returnView := builder.NewTransactionBuilder().BuildView()

	body := map[string]any{
		"transaction_id": returnView.ID.String(),
		"payment_status": "paid",
	}

	s.Run("success: returns 200 with refreshed view", func() {
		s.mockPayments.EXPECT().UpdateStatus(gomock.Any(), returnView.ID, "paid", s.userID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown payment status fails binding", func() {
		bad := testutil.DtoMap(s.T(), body, testutil.Field("payment_status", "settled"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, bad, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("illegal transition returns 422 with both states", func() {
		// Surface the error exactly as the command layer does: the concrete
		// transition error marked with the shared sentinel.
		transitionErr := errs.Mark(
			&transaction.TransitionError{From: transaction.PaymentRefunded, To: transaction.PaymentPaid},
			errs.ErrInvalidTransition,
		)
		s.mockPayments.EXPECT().UpdateStatus(gomock.Any(), returnView.ID, "paid", s.userID).
			Return(nil, transitionErr).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "bearer-token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Contains(rec.Body.String(), `"currentStatus":"refunded"`)
		s.Contains(rec.Body.String(), `"requestedStatus":"paid"`)
	})

	s.Run("bare transition error still maps to 422", func() {
		s.mockPayments.EXPECT().UpdateStatus(gomock.Any(), returnView.ID, "paid", s.userID).
			Return(nil, &transaction.TransitionError{From: transaction.PaymentRefunded, To: transaction.PaymentPaid}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "bearer-token")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown transaction returns 404", func() {
		s.mockPayments.EXPECT().UpdateStatus(gomock.Any(), returnView.ID, "paid", s.userID).
			Return(nil, errs.ErrTransactionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
