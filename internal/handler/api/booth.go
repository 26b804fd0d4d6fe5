package api

import (
	"errors"
	"net/http"

	reqdto "expo-booth-service/internal/handler/dto/request"
	resdto "expo-booth-service/internal/handler/dto/response"
	"expo-booth-service/internal/handler/httperr"
	"expo-booth-service/internal/pkg/errs"
	"expo-booth-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BoothHandler struct {
	boothQueries       queries.BoothQueries
	reservationQueries queries.ReservationQueries
}

func NewBoothHandler(boothQueries queries.BoothQueries, reservationQueries queries.ReservationQueries) *BoothHandler {
	return &BoothHandler{
		boothQueries:       boothQueries,
		reservationQueries: reservationQueries,
	}
}

// @Summary List booth catalog
// @Description List every booth with its current claimed state
// @Tags booths
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BoothResponse
// @Failure 401 {object} httperr.Response
// @Router /booths [get]
func (h *BoothHandler) ListBooths(c *gin.Context) {
	views, err := h.boothQueries.ListCatalog(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.BoothResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromBoothView(view)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Check booth availability
// @Description Advisory availability check; only the create path decides authoritatively
// @Tags booths
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckAvailabilityRequest true "Booths to check"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /booths/availability/check [post]
func (h *BoothHandler) CheckAvailability(c *gin.Context) {
	var req reqdto.CheckAvailabilityRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.reservationQueries.CheckAvailability(c.Request.Context(), req.ToRefs())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrEmptyLineItems), errors.Is(err, errs.ErrInvalidLineItem):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booth reference", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Reservation statistics
// @Description Per-sector occupancy and status distributions
// @Tags booths
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.StatisticsResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /booths/statistics [get]
func (h *BoothHandler) GetStatistics(c *gin.Context) {
	view, err := h.boothQueries.Statistics(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromStatisticsView(view))
}
