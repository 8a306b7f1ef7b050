package services

import (
	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

// transactionService handles ledger lines.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validateTransaction enforces the ledger invariants: trades carry an asset,
// a positive quantity and a non-negative price; cash lines carry none of them.
func validateTransaction(in TransactionInput) (TransactionInput, error) {
	if !in.Kind.Valid() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "Kind must be one of BUY, SELL, DEPOSIT, WITHDRAW, FEE")
	}
	if in.Date.IsZero() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "Date is required")
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return in, err
	}
	in.Currency = currency
	in.Date = in.Date.UTC()

	if in.Fee.Valid && in.Fee.Decimal.IsNegative() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "Fee cannot be negative")
	}

	if in.Kind.RequiresAsset() {
		switch {
		case in.AssetID == nil || *in.AssetID == "":
			return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "BUY / SELL require an asset")
		case !in.Qty.Valid || !in.Qty.Decimal.IsPositive():
			return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "BUY / SELL require a positive quantity")
		case !in.Price.Valid || in.Price.Decimal.IsNegative():
			return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "BUY / SELL require a non-negative price")
		}
		return in, nil
	}

	if in.AssetID != nil || in.Qty.Valid || in.Price.Valid {
		return in, apperrors.WithMessage(apperrors.ErrInvalidTransaction, "Cash movements cannot carry an asset, quantity or price")
	}
	return in, nil
}

// CreateTransaction records a ledger line after checking its references.
func (s *transactionService) CreateTransaction(in TransactionInput) (*models.Transaction, error) {
	in, err := validateTransaction(in)
	if err != nil {
		return nil, err
	}

	var platform models.Platform
	if err := s.db.First(&platform, "id = ?", in.PlatformID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrPlatformNotFound)
	}
	if in.AssetID != nil {
		var asset models.Asset
		if err := s.db.First(&asset, "id = ?", *in.AssetID).Error; err != nil {
			return nil, lookupError(err, apperrors.ErrAssetNotFound)
		}
	}

	txn := &models.Transaction{
		PlatformID: in.PlatformID,
		AssetID:    in.AssetID,
		Kind:       in.Kind,
		Date:       in.Date,
		Qty:        in.Qty,
		Price:      in.Price,
		Fee:        in.Fee,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Note:       in.Note,
	}
	if err := s.db.Create(txn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txn, nil
}

// GetTransactionByID returns a ledger line by its ID.
func (s *transactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.First(&txn, "id = ?", id).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrTransactionNotFound)
	}
	return &txn, nil
}

// ListTransactions returns a paginated, filtered list ordered by date, newest first.
func (s *transactionService) ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilter(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.Transaction
	if err := base.Order("date DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txns, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// applyTransactionFilter adds WHERE clauses for the set filter fields.
func applyTransactionFilter(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.PlatformID != nil {
		query = query.Where("platform_id = ?", *filter.PlatformID)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	return query
}

// DeleteTransaction removes a ledger line.
func (s *transactionService) DeleteTransaction(id string) error {
	result := s.db.Delete(&models.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
