package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/pagination"
	"folio/internal/testutil"
)

func TestRecordRate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		snapshot, err := NewFxService(db).RecordRate("usd", decimal.RequireFromString("0.92"), testutil.FixedDate(2024, 1, 1))
		testutil.AssertNoError(t, err)
		if snapshot.Pair != "USD/EUR" {
			t.Errorf("expected pair USD/EUR, got %s", snapshot.Pair)
		}
		if snapshot.BaseCurrency() != "USD" {
			t.Errorf("expected base USD, got %s", snapshot.BaseCurrency())
		}
	})

	t.Run("zero_date_means_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		before := time.Now().Add(-time.Second)
		snapshot, err := NewFxService(db).RecordRate("GBP", decimal.RequireFromString("1.18"), time.Time{})
		testutil.AssertNoError(t, err)
		if snapshot.Date.Before(before) {
			t.Errorf("expected a current date, got %s", snapshot.Date)
		}
	})

	invalid := []struct {
		name     string
		currency string
		rate     string
	}{
		{"eur", "EUR", "1"},
		{"zero_rate", "USD", "0"},
		{"negative_rate", "USD", "-0.5"},
		{"bad_currency", "DOLLAR", "1"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)

			_, err := NewFxService(db).RecordRate(tt.currency, decimal.RequireFromString(tt.rate), testutil.FixedDate(2024, 1, 1))
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestListRatesAndLatest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFxService(db)
	testutil.CreateTestFx(t, db, "USD", "0.90", testutil.FixedDate(2024, 1, 1))
	testutil.CreateTestFx(t, db, "USD", "0.92", testutil.FixedDate(2024, 3, 1))
	testutil.CreateTestFx(t, db, "GBP", "1.17", testutil.FixedDate(2024, 2, 1))

	t.Run("all_pairs", func(t *testing.T) {
		page, err := svc.ListRates("", pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 items, got %d", page.TotalItems)
		}
	})

	t.Run("one_pair", func(t *testing.T) {
		page, err := svc.ListRates("usd/eur", pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 items, got %d", page.TotalItems)
		}
	})

	t.Run("bad_pair", func(t *testing.T) {
		_, err := svc.ListRates("USD-EUR", pagination.PageRequest{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("latest", func(t *testing.T) {
		snapshot, err := svc.LatestRate("USD/EUR")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, snapshot.Rate, "0.92")
	})

	t.Run("latest_missing", func(t *testing.T) {
		_, err := svc.LatestRate("CHF/EUR")
		testutil.AssertAppError(t, err, "FX_NOT_FOUND")
	})
}

func TestDeleteRate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFxService(db)
	snapshot := testutil.CreateTestFx(t, db, "USD", "0.92", testutil.FixedDate(2024, 1, 1))

	testutil.AssertNoError(t, svc.DeleteRate(snapshot.ID))
	testutil.AssertAppError(t, svc.DeleteRate(snapshot.ID), "FX_NOT_FOUND")
}
