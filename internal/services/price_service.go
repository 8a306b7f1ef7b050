package services

import (
	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

// priceService handles price snapshots.
type priceService struct {
	db *gorm.DB
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB) PriceServicer {
	return &priceService{db: db}
}

// RecordPrices bulk-inserts price entries, skipping duplicates on
// (asset, date). It returns how many rows were created.
func (s *priceService) RecordPrices(prices []PriceInput) (int, error) {
	if len(prices) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices array is empty")
	}

	count := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		known := map[string]bool{}
		for _, p := range prices {
			if p.Price.IsNegative() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Price cannot be negative")
			}
			if p.Date.IsZero() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Date is required")
			}
			currency, err := normalizeCurrency(p.Currency)
			if err != nil {
				return err
			}
			if !known[p.AssetID] {
				var asset models.Asset
				if err := tx.First(&asset, "id = ?", p.AssetID).Error; err != nil {
					return lookupError(err, apperrors.ErrAssetNotFound)
				}
				known[p.AssetID] = true
			}

			created, err := recordPrice(tx, p.AssetID, p.Date, p.Price, currency)
			if err != nil {
				return err
			}
			if created {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListAssetPrices returns the price history of an asset, newest first.
func (s *priceService) ListAssetPrices(assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.PriceSnapshot], error) {
	page.Defaults()

	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAssetNotFound)
	}

	var totalItems int64
	base := s.db.Model(&models.PriceSnapshot{}).Where("asset_id = ?", assetID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.PriceSnapshot
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeletePrice removes a price snapshot.
func (s *priceService) DeletePrice(id string) error {
	result := s.db.Delete(&models.PriceSnapshot{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPriceNotFound
	}
	return nil
}
