package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/services"
)

// TransactionHandler handles ledger line requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request body for creating a transaction.
type CreateTransactionRequest struct {
	PlatformID string                 `json:"platform_id" binding:"required,uuid"`
	AssetID    *string                `json:"asset_id" binding:"omitempty,uuid"`
	Kind       models.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Date       string                 `json:"date" binding:"required"`
	Qty        decimal.NullDecimal    `json:"qty" swaggertype:"string"`
	Price      decimal.NullDecimal    `json:"price" swaggertype:"string"`
	Fee        decimal.NullDecimal    `json:"fee" swaggertype:"string"`
	Amount     decimal.NullDecimal    `json:"amount" swaggertype:"string"`
	Currency   string                 `json:"currency" binding:"required,iso4217"`
	Note       string                 `json:"note" binding:"max=500"`
}

// CreateTransaction handles creating a ledger line.
// @Summary     Create transaction
// @Description Record a trade, cash movement or fee
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Platform or asset not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.transactionService.CreateTransaction(services.TransactionInput{
		PlatformID: req.PlatformID,
		AssetID:    req.AssetID,
		Kind:       req.Kind,
		Date:       date,
		Qty:        req.Qty,
		Price:      req.Price,
		Fee:        req.Fee,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Note:       req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// transactionQuery holds the optional list filters.
type transactionQuery struct {
	PlatformID string `form:"platform_id" binding:"omitempty,uuid"`
	AssetID    string `form:"asset_id" binding:"omitempty,uuid"`
	Kind       string `form:"kind" binding:"omitempty,transaction_kind"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
}

func (q transactionQuery) filter() (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	if q.PlatformID != "" {
		filter.PlatformID = &q.PlatformID
	}
	if q.AssetID != "" {
		filter.AssetID = &q.AssetID
	}
	if q.Kind != "" {
		kind := models.TransactionKind(q.Kind)
		filter.Kind = &kind
	}
	if q.FromDate != "" {
		t, err := parseFlexibleTime(q.FromDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date")
		}
		filter.FromDate = &t
	}
	if q.ToDate != "" {
		t, err := parseFlexibleTime(q.ToDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date")
		}
		filter.ToDate = &t
	}
	return filter, nil
}

// ListTransactions handles listing ledger lines, newest first.
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Param       platform_id query string false "Filter by platform"
// @Param       asset_id    query string false "Filter by asset"
// @Param       kind        query string false "Filter by kind"
// @Param       from_date   query string false "Earliest date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "Latest date (RFC3339 or YYYY-MM-DD)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 500)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	var query transactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles fetching one ledger line.
// @Summary     Get transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// DeleteTransaction handles deleting a ledger line.
// @Summary     Delete transaction
// @Tags        transactions
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
