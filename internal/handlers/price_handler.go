package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "folio/internal/errors"
	"folio/internal/pagination"
	"folio/internal/services"
)

// PriceHandler handles price snapshot requests.
type PriceHandler struct {
	priceService services.PriceServicer
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService services.PriceServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// PriceEntry is one price observation in a RecordPricesRequest.
type PriceEntry struct {
	AssetID  string          `json:"asset_id" binding:"required,uuid"`
	Date     string          `json:"date" binding:"required"`
	Price    decimal.Decimal `json:"price" swaggertype:"string"`
	Currency string          `json:"currency" binding:"required,iso4217"`
}

// RecordPricesRequest represents a batch of price observations.
type RecordPricesRequest struct {
	Prices []PriceEntry `json:"prices" binding:"required,min=1,dive"`
}

// RecordPrices handles recording price snapshots. Observations for an asset
// and date that already has a price are skipped.
// @Summary     Record prices
// @Tags        prices
// @Accept      json
// @Produce     json
// @Param       request body RecordPricesRequest true "Price observations"
// @Success     201 {object} map[string]int "Number of prices recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /prices [post]
func (h *PriceHandler) RecordPrices(c *gin.Context) {
	var req RecordPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	inputs := make([]services.PriceInput, 0, len(req.Prices))
	for _, p := range req.Prices {
		date, err := parseFlexibleTime(p.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		inputs = append(inputs, services.PriceInput{AssetID: p.AssetID, Date: date, Price: p.Price, Currency: p.Currency})
	}

	recorded, err := h.priceService.RecordPrices(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recorded": recorded})
}

// ListAssetPrices handles listing the price history of an asset.
// @Summary     List asset prices
// @Tags        prices
// @Produce     json
// @Param       id        path  string true  "Asset ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 500)"
// @Success     200 {object} pagination.PageResponse[models.PriceSnapshot] "Paginated prices"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id}/prices [get]
func (h *PriceHandler) ListAssetPrices(c *gin.Context) {
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.priceService.ListAssetPrices(assetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeletePrice handles deleting a price snapshot.
// @Summary     Delete price
// @Tags        prices
// @Param       id path string true "Price snapshot ID"
// @Success     204 "Price deleted"
// @Failure     404 {object} ErrorResponse "Price not found"
// @Router      /prices/{id} [delete]
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.priceService.DeletePrice(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
