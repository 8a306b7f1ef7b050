package models

import (
	"time"

	"folio/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceSnapshot is an observed price of an asset, in the asset's currency.
// This is immutable time-series data.
type PriceSnapshot struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID   string          `gorm:"type:uuid;not null;uniqueIndex:uq_price_asset_date" json:"asset_id"`
	Date      time.Time       `gorm:"not null;uniqueIndex:uq_price_asset_date" json:"date"`
	Price     decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PriceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
