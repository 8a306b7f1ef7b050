package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/services"
)

// AdminHandler handles maintenance requests.
type AdminHandler struct {
	adminService services.AdminServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Reset handles wiping the ledger.
// @Summary     Reset database
// @Description Delete every platform, asset, transaction and snapshot
// @Tags        admin
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]string "Reset done"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.adminService.ResetDatabase(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database reset"})
}

// Seed handles inserting the sample ledger.
// @Summary     Seed sample data
// @Tags        admin
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.SeedResult "Rows inserted"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /admin/seed [post]
func (h *AdminHandler) Seed(c *gin.Context) {
	result, err := h.adminService.SeedSampleData()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"seed": result})
}
