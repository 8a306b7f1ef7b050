package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/pagination"
	"folio/internal/services"
)

// PlatformHandler handles platform-related requests.
type PlatformHandler struct {
	platformService services.PlatformServicer
}

// NewPlatformHandler creates a new PlatformHandler.
func NewPlatformHandler(platformService services.PlatformServicer) *PlatformHandler {
	return &PlatformHandler{platformService: platformService}
}

// PlatformRequest is the payload for creating or renaming a platform.
type PlatformRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreatePlatform handles creating a new platform.
// @Summary     Create platform
// @Description Create a broker or account that holds positions
// @Tags        platforms
// @Accept      json
// @Produce     json
// @Param       request body PlatformRequest true "Platform details"
// @Success     201 {object} models.Platform "Platform created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate platform"
// @Router      /platforms [post]
func (h *PlatformHandler) CreatePlatform(c *gin.Context) {
	var req PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	platform, err := h.platformService.CreatePlatform(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"platform": platform})
}

// ListPlatforms handles listing platforms.
// @Summary     List platforms
// @Tags        platforms
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 500)"
// @Success     200 {object} pagination.PageResponse[models.Platform] "Paginated platforms"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /platforms [get]
func (h *PlatformHandler) ListPlatforms(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.platformService.ListPlatforms(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPlatform handles fetching one platform.
// @Summary     Get platform
// @Tags        platforms
// @Produce     json
// @Param       id path string true "Platform ID"
// @Success     200 {object} models.Platform "Platform details"
// @Failure     404 {object} ErrorResponse "Platform not found"
// @Router      /platforms/{id} [get]
func (h *PlatformHandler) GetPlatform(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	platform, err := h.platformService.GetPlatformByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"platform": platform})
}

// RenamePlatform handles renaming a platform.
// @Summary     Rename platform
// @Tags        platforms
// @Accept      json
// @Produce     json
// @Param       id      path string          true "Platform ID"
// @Param       request body PlatformRequest true "New name"
// @Success     200 {object} models.Platform "Platform renamed"
// @Failure     404 {object} ErrorResponse "Platform not found"
// @Failure     409 {object} ErrorResponse "Duplicate platform"
// @Router      /platforms/{id} [put]
func (h *PlatformHandler) RenamePlatform(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	platform, err := h.platformService.RenamePlatform(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"platform": platform})
}

// DeletePlatform handles deleting an unused platform.
// @Summary     Delete platform
// @Tags        platforms
// @Param       id path string true "Platform ID"
// @Success     204 "Platform deleted"
// @Failure     404 {object} ErrorResponse "Platform not found"
// @Failure     409 {object} ErrorResponse "Platform in use"
// @Router      /platforms/{id} [delete]
func (h *PlatformHandler) DeletePlatform(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.platformService.DeletePlatform(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
