package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/services"
)

// PortfolioHandler serves valuations of the ledger.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetSummary handles the current EUR valuation.
// @Summary     Portfolio summary
// @Description Open positions valued in EUR, grouped by platform, type and ticker
// @Tags        portfolio
// @Produce     json
// @Success     200 {object} valuation.Summary "Portfolio summary"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	summary, err := h.portfolioService.GetSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetHistory handles the valuation timeline.
// @Summary     Portfolio history
// @Tags        portfolio
// @Produce     json
// @Success     200 {array} valuation.HistoryPoint "Valuation per date"
// @Router      /portfolio/history [get]
func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	points, err := h.portfolioService.GetHistory()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": points})
}
