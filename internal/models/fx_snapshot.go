package models

import (
	"strings"
	"time"

	"folio/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportingCurrency is the currency every valuation is expressed in.
const ReportingCurrency = "EUR"

// FxSnapshot is an observed exchange rate. Pair is "CCY/EUR" and Rate is
// the EUR value of one unit of CCY.
type FxSnapshot struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Pair      string          `gorm:"size:7;not null;index" json:"pair"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Rate      decimal.Decimal `gorm:"type:numeric;not null" json:"rate"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (f *FxSnapshot) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New()
	}
	return nil
}

// FxPair returns the pair name quoting currency against the reporting currency.
func FxPair(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency)) + "/" + ReportingCurrency
}

// BaseCurrency returns the quoted side of a "CCY/EUR" pair.
func (f *FxSnapshot) BaseCurrency() string {
	base, _, _ := strings.Cut(f.Pair, "/")
	return base
}
