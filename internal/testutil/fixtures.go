package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedDate returns midnight UTC of the given day.
func FixedDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestPlatform creates a platform with a unique name.
func CreateTestPlatform(t *testing.T, db *gorm.DB) *models.Platform {
	t.Helper()
	return CreateTestPlatformWithName(t, db, fmt.Sprintf("Broker %d", nextID()))
}

// CreateTestPlatformWithName creates a platform with the given name.
func CreateTestPlatformWithName(t *testing.T, db *gorm.DB, name string) *models.Platform {
	t.Helper()

	platform := &models.Platform{Name: name}
	if err := db.Create(platform).Error; err != nil {
		t.Fatalf("failed to create test platform: %v", err)
	}
	return platform
}

// CreateTestAsset creates an asset with a unique symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB, assetType models.AssetType, currency string) *models.Asset {
	t.Helper()
	return CreateTestAssetWithSymbol(t, db, fmt.Sprintf("TST%d", nextID()), assetType, currency)
}

// CreateTestAssetWithSymbol creates an asset with the given symbol.
func CreateTestAssetWithSymbol(t *testing.T, db *gorm.DB, symbol string, assetType models.AssetType, currency string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Type:     assetType,
		Symbol:   symbol,
		Name:     symbol + " Test",
		Currency: currency,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestTrade creates a BUY or SELL line.
func CreateTestTrade(t *testing.T, db *gorm.DB, platformID, assetID string, kind models.TransactionKind, qty, price string, date time.Time) *models.Transaction {
	t.Helper()

	id := assetID
	tx := &models.Transaction{
		PlatformID: platformID,
		AssetID:    &id,
		Kind:       kind,
		Date:       date,
		Qty:        decimal.NewNullDecimal(decimal.RequireFromString(qty)),
		Price:      decimal.NewNullDecimal(decimal.RequireFromString(price)),
		Currency:   models.ReportingCurrency,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestPrice records a price observation.
func CreateTestPrice(t *testing.T, db *gorm.DB, assetID, price, currency string, date time.Time) *models.PriceSnapshot {
	t.Helper()

	snapshot := &models.PriceSnapshot{
		AssetID:  assetID,
		Price:    decimal.RequireFromString(price),
		Currency: currency,
		Date:     date,
	}
	if err := db.Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return snapshot
}

// CreateTestFx records an FX observation for currency against EUR.
func CreateTestFx(t *testing.T, db *gorm.DB, currency, rate string, date time.Time) *models.FxSnapshot {
	t.Helper()

	snapshot := &models.FxSnapshot{
		Pair: models.FxPair(currency),
		Rate: decimal.RequireFromString(rate),
		Date: date,
	}
	if err := db.Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test fx snapshot: %v", err)
	}
	return snapshot
}
