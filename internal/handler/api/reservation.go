package api

import (
	"errors"
	"net/http"

	"expo-booth-service/internal/domain/transaction"
	reqdto "expo-booth-service/internal/handler/dto/request"
	resdto "expo-booth-service/internal/handler/dto/response"
	"expo-booth-service/internal/handler/httperr"
	"expo-booth-service/internal/handler/middleware"
	"expo-booth-service/internal/pkg/errs"
	"expo-booth-service/internal/usecase/commands"
	"expo-booth-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	paymentCommands     commands.PaymentCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	paymentCommands commands.PaymentCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		paymentCommands:     paymentCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Reserve booths
// @Description Reserve one or more booths in a single transaction
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /booths/reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.reservationCommands.Create(c.Request.Context(), req.ToInput(), userID, idempotencyKey)
	if err != nil {
		h.respondReservationError(c, err)
		return
	}

	if result.IsReplayed {
		c.Header("Idempotency-Replayed", "true")
	}
	c.JSON(http.StatusCreated, resdto.FromTransactionView(result.Transaction))
}

// @Summary Get reservation
// @Description Get a booth reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /booths/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid transaction ID format", nil)
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), userID, middleware.IsAdmin(c), id)
	if err != nil {
		h.respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTransactionView(view))
}

// @Summary List own reservations
// @Description List all booth reservations of the current user
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 401 {object} httperr.Response
// @Router /booths/reservations [get]
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	items, err := h.reservationQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.ReservationListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromTransactionListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Cancel reservation
// @Description Cancel an unpaid booth reservation and release its booths
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /booths/reservations/{id} [delete]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid transaction ID format", nil)
		return
	}

	if err := h.reservationCommands.Cancel(c.Request.Context(), id, userID, middleware.IsAdmin(c)); err != nil {
		h.respondReservationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update payment status
// @Description Move a transaction along the payment lifecycle
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdatePaymentStatusRequest true "Payment status update"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /booths/reservations [patch]
func (h *ReservationHandler) UpdatePaymentStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	var req reqdto.UpdatePaymentStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.paymentCommands.UpdateStatus(c.Request.Context(), req.TransactionID, req.PaymentStatus, userID)
	if err != nil {
		h.respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTransactionView(view))
}

func (h *ReservationHandler) respondReservationError(c *gin.Context, err error) {
	var conflictErr *commands.BoothConflictError
	var transitionErr *transaction.TransitionError

	switch {
	case errors.As(err, &conflictErr):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booths already claimed by an active transaction",
			gin.H{"conflicts": resdto.FromBoothKeys(conflictErr.Conflicts)})
	case errors.As(err, &transitionErr):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Illegal payment status transition",
			gin.H{
				"currentStatus":   transitionErr.From.String(),
				"requestedStatus": transitionErr.To.String(),
			})
	case errors.Is(err, errs.ErrBoothNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booth not found", nil)
	case errors.Is(err, errs.ErrTransactionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Transaction not found", nil)
	case errors.Is(err, errs.ErrDuplicateRequest):
		httperr.AbortWithError(c, http.StatusConflict, err, "Duplicate request with different parameters", nil)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is currently being processed", nil)
	case errors.Is(err, errs.ErrBoothInactive):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booth is not open for reservation", nil)
	case errors.Is(err, errs.ErrTransactionPaid):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Paid transaction cannot be cancelled", nil)
	case errors.Is(err, errs.ErrTransactionExpired):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Transaction already expired", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Illegal payment status transition", nil)
	case errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation request", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *ReservationHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
