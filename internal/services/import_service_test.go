package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/csvimport"
	"folio/internal/models"
	"folio/internal/provider"
	"folio/internal/testutil"
)

// stubRates answers FX lookups from a fixed table and records each call.
type stubRates struct {
	rates map[string]string
	calls [][]string
}

func (s *stubRates) Name() string { return "stub" }

func (s *stubRates) FetchRates(_ context.Context, currencies []string) provider.RateResult {
	s.calls = append(s.calls, currencies)
	result := provider.RateResult{Rates: map[string]decimal.Decimal{}}
	for _, c := range currencies {
		rate, ok := s.rates[c]
		if !ok {
			result.Errors = append(result.Errors, provider.RateError{Currency: c, Message: "HTTP 404"})
			continue
		}
		result.Rates[c] = decimal.RequireFromString(rate)
	}
	return result
}

const readyCSV = `date,platform,kind,asset_symbol,qty,price,currency
2024-01-01,DEGIRO,DEPOSIT,,1000,,EUR
2024-01-02,DEGIRO,BUY,VWRL,10,90.5,EUR
2024-01-15,degiro ,BUY,AAPL,2,150,USD
2024-01-15,DEGIRO,BUY,AAPL,1,151,USD
`

func newTestImportService(t *testing.T, rates provider.RateProvider) (ImportServicer, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewImportService(db, NewMappingTemplateService(db, time.Minute), rates)
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func TestImportPreview(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		svc, done := newTestImportService(t, nil)
		defer done()

		preview, err := svc.Preview(readyCSV, ImportOptions{})
		testutil.AssertNoError(t, err)
		if preview.State != csvimport.StateReady {
			t.Errorf("expected state ready, got %s (%s)", preview.State, preview.Message)
		}
		if len(preview.Records) != 4 {
			t.Errorf("expected 4 records, got %d", len(preview.Records))
		}
		if len(preview.NeedsReview) != 0 {
			t.Errorf("expected nothing to review, got %v", preview.NeedsReview)
		}
		if preview.TemplateApplied {
			t.Error("expected no template")
		}
	})

	t.Run("missing_columns", func(t *testing.T) {
		svc, done := newTestImportService(t, nil)
		defer done()

		preview, err := svc.Preview("when,what\n2024-01-01,BUY\n", ImportOptions{})
		testutil.AssertNoError(t, err)
		if preview.State != csvimport.StateMapping {
			t.Errorf("expected state mapping, got %s", preview.State)
		}
		if len(preview.Errors) != 1 || preview.Errors[0].Row != 0 {
			t.Errorf("expected one structural error, got %+v", preview.Errors)
		}
	})

	t.Run("override_needs_review", func(t *testing.T) {
		svc, done := newTestImportService(t, nil)
		defer done()

		text := "date,settle,platform,kind,qty,currency\nx,2024-01-01,DEGIRO,DEPOSIT,100,EUR\n"
		preview, err := svc.Preview(text, ImportOptions{Mapping: csvimport.Mapping{csvimport.FieldDate: "settle"}})
		testutil.AssertNoError(t, err)
		if preview.State != csvimport.StateMapping {
			t.Errorf("expected state mapping, got %s", preview.State)
		}
		if !reflect.DeepEqual(preview.NeedsReview, []csvimport.Field{csvimport.FieldDate}) {
			t.Errorf("expected date under review, got %v", preview.NeedsReview)
		}
		if len(preview.Records) != 1 || len(preview.Errors) != 0 {
			t.Errorf("expected the settle column to parse, got %+v", preview.Errors)
		}
	})

	t.Run("template_applied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		templates := NewMappingTemplateService(db, time.Minute)
		svc := NewImportService(db, templates, nil)

		text := "day,op,ticker,qty,price\n2024-01-01,BUY,AAPL,1,150\n"
		sig := csvimport.SuggestMapping(text).Signature
		testutil.AssertNoError(t, templates.Put(sig, csvimport.Mapping{csvimport.FieldDate: "day", csvimport.FieldKind: "op"}, "DEGIRO"))

		preview, err := svc.Preview(text, ImportOptions{DefaultCurrency: "USD"})
		testutil.AssertNoError(t, err)
		if !preview.TemplateApplied {
			t.Error("expected template applied")
		}
		if preview.DefaultPlatform != "DEGIRO" {
			t.Errorf("expected default platform from template, got %q", preview.DefaultPlatform)
		}
		if len(preview.Records) != 1 || preview.Records[0].Platform != "DEGIRO" {
			t.Errorf("expected rows on DEGIRO, got %+v / %+v", preview.Records, preview.Errors)
		}
	})

	t.Run("empty", func(t *testing.T) {
		svc, done := newTestImportService(t, nil)
		defer done()

		preview, err := svc.Preview("", ImportOptions{})
		testutil.AssertNoError(t, err)
		if preview.State != csvimport.StateError {
			t.Errorf("expected state error, got %s", preview.State)
		}
		if preview.Headers == nil || preview.Records == nil {
			t.Error("expected non-nil slices")
		}
	})
}

func TestImportCommit(t *testing.T) {
	t.Run("persists_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rates := &stubRates{rates: map[string]string{"USD": "0.92"}}
		svc := NewImportService(db, NewMappingTemplateService(db, time.Minute), rates)

		result, err := svc.Commit(context.Background(), readyCSV, ImportOptions{}, false)
		testutil.AssertNoError(t, err)

		if result.TransactionsCreated != 4 {
			t.Errorf("expected 4 transactions, got %d", result.TransactionsCreated)
		}
		if result.PlatformsCreated != 1 {
			t.Errorf("expected platforms deduped by name, got %d", result.PlatformsCreated)
		}
		if result.AssetsCreated != 2 {
			t.Errorf("expected 2 assets, got %d", result.AssetsCreated)
		}
		if result.PricesCreated != 2 {
			t.Errorf("expected one price per asset and date, got %d", result.PricesCreated)
		}
		if !reflect.DeepEqual(result.FxMessages, []string{"FX USD/EUR updated (0.9200)."}) {
			t.Errorf("unexpected fx messages %v", result.FxMessages)
		}

		var deposit models.Transaction
		db.Where("kind = ?", models.TransactionKindDeposit).First(&deposit)
		testutil.AssertNullDecimal(t, deposit.Amount, "1000")
		if deposit.Qty.Valid || deposit.AssetID != nil {
			t.Errorf("expected cash line without qty or asset, got %+v", deposit)
		}

		var fx models.FxSnapshot
		if err := db.Where("pair = ?", "USD/EUR").First(&fx).Error; err != nil {
			t.Fatalf("expected recorded fx rate: %v", err)
		}
		testutil.AssertDecimal(t, fx.Rate, "0.92")
	})

	t.Run("second_commit_reuses_entities", func(t *testing.T) {
		svc, done := newTestImportService(t, nil)
		defer done()

		_, err := svc.Commit(context.Background(), readyCSV, ImportOptions{}, false)
		testutil.AssertNoError(t, err)
		result, err := svc.Commit(context.Background(), readyCSV, ImportOptions{}, false)
		testutil.AssertNoError(t, err)

		if result.PlatformsCreated != 0 || result.AssetsCreated != 0 || result.PricesCreated != 0 {
			t.Errorf("expected no new platforms, assets or prices, got %+v", result)
		}
		if result.TransactionsCreated != 4 {
			t.Errorf("expected 4 transactions, got %d", result.TransactionsCreated)
		}
	})

	t.Run("missing_fx_reported", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rates := &stubRates{rates: map[string]string{}}
		svc := NewImportService(db, NewMappingTemplateService(db, time.Minute), rates)

		text := "date,platform,kind,asset_symbol,qty,price,currency\n2024-01-01,IBKR,BUY,VOD,1,0.7,GBP\n"
		result, err := svc.Commit(context.Background(), text, ImportOptions{}, false)
		testutil.AssertNoError(t, err)
		if !reflect.DeepEqual(result.FxMessages, []string{"FX not found for GBP/EUR. Add it manually."}) {
			t.Errorf("unexpected fx messages %v", result.FxMessages)
		}
		if !reflect.DeepEqual(rates.calls, [][]string{{"GBP"}}) {
			t.Errorf("expected a single GBP lookup, got %v", rates.calls)
		}
	})

	t.Run("row_errors_refused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportService(db, NewMappingTemplateService(db, time.Minute), nil)

		text := "date,platform,kind,asset_symbol,qty,price\n2024-01-01,DEGIRO,BUY,VWRL,10,90\nnot-a-date,DEGIRO,BUY,VWRL,1,90\n"
		_, err := svc.Commit(context.Background(), text, ImportOptions{}, false)
		testutil.AssertAppError(t, err, "IMPORT_NOT_READY")

		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		if count != 0 {
			t.Errorf("expected nothing persisted, got %d transactions", count)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		svc, done := newTestImportService(t, nil)
		defer done()

		_, err := svc.Commit(context.Background(), "date,platform,kind\n", ImportOptions{}, false)
		testutil.AssertAppError(t, err, "IMPORT_EMPTY")
	})

	t.Run("confirmed_mapping_is_remembered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		templates := NewMappingTemplateService(db, time.Minute)
		svc := NewImportService(db, templates, nil)

		text := "date,settle,kind,qty,currency\nx,2024-01-01,DEPOSIT,100,EUR\n"
		opts := ImportOptions{
			DefaultPlatform: "DEGIRO",
			Mapping:         csvimport.Mapping{csvimport.FieldDate: "settle"},
		}
		result, err := svc.Commit(context.Background(), text, opts, true)
		testutil.AssertNoError(t, err)
		if result.TransactionsCreated != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TransactionsCreated)
		}

		tpl, found, err := templates.Get(csvimport.SuggestMapping(text).Signature)
		testutil.AssertNoError(t, err)
		if !found {
			t.Fatal("expected remembered template")
		}
		if tpl.Mapping["date"] != "settle" || tpl.Broker != "DEGIRO" {
			t.Errorf("unexpected template %+v", tpl)
		}
	})

	t.Run("failure_rolls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportService(db, NewMappingTemplateService(db, time.Minute), nil)

		if err := db.Migrator().DropTable(&models.Transaction{}); err != nil {
			t.Fatalf("failed to drop table: %v", err)
		}

		_, err := svc.Commit(context.Background(), readyCSV, ImportOptions{}, false)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")

		var platforms, assets int64
		db.Model(&models.Platform{}).Count(&platforms)
		db.Model(&models.Asset{}).Count(&assets)
		if platforms != 0 || assets != 0 {
			t.Errorf("expected rollback, got %d platforms and %d assets", platforms, assets)
		}
	})

	t.Run("failed_commit_not_remembered", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		templates := NewMappingTemplateService(db, time.Minute)
		svc := NewImportService(db, templates, nil)

		if err := db.Migrator().DropTable(&models.Transaction{}); err != nil {
			t.Fatalf("failed to drop table: %v", err)
		}

		_, err := svc.Commit(context.Background(), readyCSV, ImportOptions{}, true)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")

		_, found, err := templates.Get(csvimport.SuggestMapping(readyCSV).Signature)
		testutil.AssertNoError(t, err)
		if found {
			t.Error("expected no template after a failed commit")
		}
	})
}

func TestCashAmount(t *testing.T) {
	withPrice := csvimport.Row{Qty: nullDec("1"), Price: nullDec("250")}
	testutil.AssertNullDecimal(t, cashAmount(withPrice), "250")

	qtyOnly := csvimport.Row{Qty: nullDec("100")}
	testutil.AssertNullDecimal(t, cashAmount(qtyOnly), "100")
}
