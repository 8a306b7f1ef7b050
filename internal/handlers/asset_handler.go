package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/services"
)

// AssetHandler handles asset-related requests.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AssetRequest is the payload for creating or updating an asset.
type AssetRequest struct {
	Type     models.AssetType `json:"type" binding:"required,asset_type"`
	Symbol   string           `json:"symbol" binding:"required,min=1,max=32"`
	Name     string           `json:"name" binding:"max=200"`
	Currency string           `json:"currency" binding:"required,iso4217"`
}

func (r AssetRequest) input() services.AssetInput {
	return services.AssetInput{Type: r.Type, Symbol: r.Symbol, Name: r.Name, Currency: r.Currency}
}

// CreateAsset handles creating a new asset.
// @Summary     Create asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       request body AssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate asset"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.CreateAsset(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// ListAssets handles listing assets.
// @Summary     List assets
// @Tags        assets
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 500)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.assetService.ListAssets(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAsset handles fetching one asset.
// @Summary     Get asset
// @Tags        assets
// @Produce     json
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset details"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdateAsset handles updating an asset.
// @Summary     Update asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       id      path string       true "Asset ID"
// @Param       request body AssetRequest true "Asset details"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Duplicate asset"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.UpdateAsset(id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset handles deleting an asset with its price history.
// @Summary     Delete asset
// @Tags        assets
// @Param       id path string true "Asset ID"
// @Success     204 "Asset deleted"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Asset in use"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
