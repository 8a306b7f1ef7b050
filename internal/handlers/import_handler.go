package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/csvimport"
	"folio/internal/services"
)

// ImportHandler handles CSV import requests.
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportRequest carries the CSV text and the caller's import options.
type ImportRequest struct {
	CSV             string            `json:"csv" binding:"required"`
	DefaultCurrency string            `json:"default_currency" binding:"omitempty,iso4217"`
	DefaultPlatform string            `json:"default_platform" binding:"max=100"`
	Mapping         csvimport.Mapping `json:"mapping"`
	Remember        bool              `json:"remember"`
}

func (r ImportRequest) options() services.ImportOptions {
	return services.ImportOptions{
		DefaultCurrency: r.DefaultCurrency,
		DefaultPlatform: r.DefaultPlatform,
		Mapping:         r.Mapping,
	}
}

// Preview handles parsing a CSV without persisting it.
// @Summary     Preview CSV import
// @Description Detect columns, normalize rows and report per-row errors
// @Tags        imports
// @Accept      json
// @Produce     json
// @Param       request body ImportRequest true "CSV and options"
// @Success     200 {object} services.ImportPreview "Parsed preview"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /imports/preview [post]
func (h *ImportHandler) Preview(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	preview, err := h.importService.Preview(req.CSV, req.options())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// Commit handles persisting a CSV atomically.
// @Summary     Commit CSV import
// @Description Persist every parsed row in one transaction, then refresh FX rates
// @Tags        imports
// @Accept      json
// @Produce     json
// @Param       request body ImportRequest true "CSV and options"
// @Success     201 {object} services.ImportResult "Import result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Import has errors or no rows"
// @Router      /imports/commit [post]
func (h *ImportHandler) Commit(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.importService.Commit(c.Request.Context(), req.CSV, req.options(), req.Remember)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"import": result})
}
