package testutil_test

import (
	"testing"

	"folio/internal/errors"
	"folio/internal/models"
	"folio/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"platforms", "assets", "transactions", "price_snapshots", "fx_snapshots", "mapping_templates"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestPlatform(t, first)

	var count int64
	second.Model(&models.Platform{}).Count(&count)
	if count != 0 {
		t.Errorf("expected isolated databases, got %d platforms", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	platform := testutil.CreateTestPlatform(t, db)
	if platform.ID == "" {
		t.Fatal("platform should have an ID")
	}

	asset := testutil.CreateTestAsset(t, db, models.AssetTypeETF, "EUR")
	if asset.Type != models.AssetTypeETF {
		t.Errorf("expected ETF, got %s", asset.Type)
	}

	date := testutil.FixedDate(2024, 1, 1)
	tx := testutil.CreateTestTrade(t, db, platform.ID, asset.ID, models.TransactionKindBuy, "10", "95.5", date)
	testutil.AssertNullDecimal(t, tx.Qty, "10")

	var stored models.Transaction
	if err := db.First(&stored, "id = ?", tx.ID).Error; err != nil {
		t.Fatalf("failed to reload transaction: %v", err)
	}
	testutil.AssertNullDecimal(t, stored.Price, "95.5")
	if stored.Fee.Valid {
		t.Error("expected fee to stay null")
	}

	fx := testutil.CreateTestFx(t, db, "usd", "0.92", date)
	if fx.Pair != "USD/EUR" {
		t.Errorf("expected pair USD/EUR, got %s", fx.Pair)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAssetNotFound, "custom message")
	testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}

func TestAssertDecimal(t *testing.T) {
	testutil.AssertDecimal(t, decimal.RequireFromString("1.50"), "1.5")
}
