package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
)

// recordPrice inserts a price snapshot unless one exists for the same asset
// and date. It reports whether a row was created.
func recordPrice(tx *gorm.DB, assetID string, date time.Time, price decimal.Decimal, currency string) (bool, error) {
	date = date.UTC()
	var existing []models.PriceSnapshot
	if err := tx.Where("asset_id = ? AND date = ?", assetID, date).Limit(1).Find(&existing).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	snapshot := models.PriceSnapshot{
		AssetID:  assetID,
		Date:     date,
		Price:    price,
		Currency: currency,
	}
	if err := tx.Create(&snapshot).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// recordRate inserts an FX snapshot for currency against EUR.
func recordRate(tx *gorm.DB, currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error) {
	snapshot := &models.FxSnapshot{
		Pair: models.FxPair(currency),
		Date: date.UTC(),
		Rate: rate,
	}
	if err := tx.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshot, nil
}
