package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "folio/internal/errors"
	"folio/internal/pagination"
	"folio/internal/services"
)

// FxHandler handles FX snapshot requests.
type FxHandler struct {
	fxService services.FxServicer
}

// NewFxHandler creates a new FxHandler.
func NewFxHandler(fxService services.FxServicer) *FxHandler {
	return &FxHandler{fxService: fxService}
}

// RecordRateRequest records how many EUR one unit of Currency buys.
type RecordRateRequest struct {
	Currency string          `json:"currency" binding:"required,iso4217"`
	Rate     decimal.Decimal `json:"rate" swaggertype:"string"`
	Date     string          `json:"date"`
}

type pairQuery struct {
	Pair string `form:"pair" binding:"omitempty,fx_pair"`
}

// RecordRate handles recording an FX snapshot. The date defaults to now.
// @Summary     Record FX rate
// @Tags        fx
// @Accept      json
// @Produce     json
// @Param       request body RecordRateRequest true "Rate details"
// @Success     201 {object} models.FxSnapshot "Rate recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /fx [post]
func (h *FxHandler) RecordRate(c *gin.Context) {
	var req RecordRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		date = parsed
	}

	snapshot, err := h.fxService.RecordRate(req.Currency, req.Rate, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fx": snapshot})
}

// ListRates handles listing FX snapshots, optionally for one pair.
// @Summary     List FX rates
// @Tags        fx
// @Produce     json
// @Param       pair      query string false "Pair such as USD/EUR"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 500)"
// @Success     200 {object} pagination.PageResponse[models.FxSnapshot] "Paginated rates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /fx [get]
func (h *FxHandler) ListRates(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var query pairQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.fxService.ListRates(query.Pair, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LatestRate handles fetching the newest snapshot of a pair.
// @Summary     Latest FX rate
// @Tags        fx
// @Produce     json
// @Param       pair query string true "Pair such as USD/EUR"
// @Success     200 {object} models.FxSnapshot "Latest rate"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "No rate recorded"
// @Router      /fx/latest [get]
func (h *FxHandler) LatestRate(c *gin.Context) {
	var query pairQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if query.Pair == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "pair is required"))
		return
	}

	snapshot, err := h.fxService.LatestRate(query.Pair)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fx": snapshot})
}

// DeleteRate handles deleting an FX snapshot.
// @Summary     Delete FX rate
// @Tags        fx
// @Param       id path string true "FX snapshot ID"
// @Success     204 "Rate deleted"
// @Failure     404 {object} ErrorResponse "Rate not found"
// @Router      /fx/{id} [delete]
func (h *FxHandler) DeleteRate(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.fxService.DeleteRate(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
