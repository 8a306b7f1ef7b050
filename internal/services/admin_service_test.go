package services

import (
	"testing"

	"folio/internal/csvimport"
	"folio/internal/models"
	"folio/internal/testutil"

	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func TestSeedSampleData(t *testing.T) {
	t.Run("inserts_sample", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		result, err := NewAdminService(db).SeedSampleData()
		testutil.AssertNoError(t, err)
		if result.Platforms != 2 || result.Assets != 3 || result.Transactions != 3 || result.Prices != 3 || result.FxRates != 1 {
			t.Errorf("unexpected seed counts %+v", result)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)

		_, err := svc.SeedSampleData()
		testutil.AssertNoError(t, err)
		_, err = svc.SeedSampleData()
		testutil.AssertNoError(t, err)

		if n := countRows(t, db, &models.Transaction{}); n != 3 {
			t.Errorf("expected 3 transactions, got %d", n)
		}
		if n := countRows(t, db, &models.Platform{}); n != 2 {
			t.Errorf("expected 2 platforms, got %d", n)
		}
		if n := countRows(t, db, &models.PriceSnapshot{}); n != 3 {
			t.Errorf("expected 3 prices, got %d", n)
		}
		if n := countRows(t, db, &models.FxSnapshot{}); n != 1 {
			t.Errorf("expected 1 fx rate, got %d", n)
		}
	})

	t.Run("reuses_existing_platform", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		existing := testutil.CreateTestPlatformWithName(t, db, "degiro")

		_, err := NewAdminService(db).SeedSampleData()
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Transaction{}).Where("platform_id = ?", existing.ID).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 seeded trades on the existing platform, got %d", count)
		}
	})
}

func TestResetDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdminService(db)

	_, err := svc.SeedSampleData()
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, NewMappingTemplateService(db, 0).Put("a|b", csvimport.Mapping{csvimport.FieldDate: "a"}, ""))

	testutil.AssertNoError(t, svc.ResetDatabase())

	for _, model := range []interface{}{
		&models.Transaction{},
		&models.PriceSnapshot{},
		&models.FxSnapshot{},
		&models.Asset{},
		&models.Platform{},
	} {
		if n := countRows(t, db, model); n != 0 {
			t.Errorf("expected %T emptied, got %d rows", model, n)
		}
	}
	if n := countRows(t, db, &models.MappingTemplate{}); n != 1 {
		t.Errorf("expected mapping templates kept, got %d", n)
	}
}
