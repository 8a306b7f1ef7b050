package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/oracle"
)

// MarketDataRefresher pulls fresh quotes and FX rates.
type MarketDataRefresher interface {
	Run(ctx context.Context) (*oracle.RunResult, error)
}

// MarketDataHandler triggers market data refreshes.
type MarketDataHandler struct {
	refresher MarketDataRefresher
}

// NewMarketDataHandler creates a new MarketDataHandler.
func NewMarketDataHandler(refresher MarketDataRefresher) *MarketDataHandler {
	return &MarketDataHandler{refresher: refresher}
}

// Refresh handles fetching quotes for every asset and the FX rates they need.
// Per-asset failures are reported in the result, not as an error.
// @Summary     Refresh market data
// @Tags        market-data
// @Produce     json
// @Success     200 {object} oracle.RunResult "Refresh result"
// @Failure     500 {object} ErrorResponse "Ledger unavailable"
// @Router      /market-data/refresh [post]
func (h *MarketDataHandler) Refresh(c *gin.Context) {
	result, err := h.refresher.Run(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refresh": result})
}
