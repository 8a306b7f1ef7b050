package csvimport

import (
	"testing"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

func TestParseNumber(t *testing.T) {
	valid := []struct {
		in   string
		want string
	}{
		{"0,048592", "0.048592"},
		{"108,246", "108.246"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1,234,567", "1234567"},
		{"1.234.567", "1234567"},
		{"(12.50)", "-12.5"},
		{"-3", "-3"},
		{"€ 1 234,50", "1234.5"},
		{"1'000.25", "1000.25"},
		{"USD 15.3", "15.3"},
		{"15.3 EUR", "15.3"},
		{"1 000,5", "1000.5"},
		{"$42", "42"},
		{"12 gbp", "12"},
	}
	for _, tt := range valid {
		t.Run("valid_"+tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			if !ok {
				t.Fatalf("expected %q to parse", tt.in)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	for _, in := range []string{"", "abc", "12a", "12abc", "abc1", "xyz 15", "--", "1e5"} {
		t.Run("invalid_"+in, func(t *testing.T) {
			if _, ok := ParseNumber(in); ok {
				t.Errorf("expected %q to be rejected", in)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	valid := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", day(2024, 1, 15)},
		{"2024/1/5", day(2024, 1, 5)},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T14:30:00+02:00", time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)},
		{"2024-01-15 09:05", time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)},
		{"2024-01-15 00:00:00.000 UTC", day(2024, 1, 15)},
		{"15/01/2024", day(2024, 1, 15)},
		{"15.01.24", day(2024, 1, 15)},
		{"1-2-2025", day(2025, 2, 1)},
		{"1704067200", day(2024, 1, 1)},
		{"1704067200000", day(2024, 1, 1)},
		{"Jan 2, 2025", day(2025, 1, 2)},
		{"2 Jan 2025", day(2025, 1, 2)},
	}
	for _, tt := range valid {
		t.Run("valid_"+tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if !ok {
				t.Fatalf("expected %q to parse", tt.in)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	for _, in := range []string{"", "not-a-date", "31/02/2024", "2024-13-01"} {
		t.Run("invalid_"+in, func(t *testing.T) {
			if _, ok := ParseDate(in); ok {
				t.Errorf("expected %q to be rejected", in)
			}
		})
	}
}

func TestVocabulary(t *testing.T) {
	t.Run("kinds", func(t *testing.T) {
		cases := map[string]models.TransactionKind{
			"buy":        models.TransactionKindBuy,
			"Achat":      models.TransactionKindBuy,
			"Purchase":   models.TransactionKindBuy,
			"vente":      models.TransactionKindSell,
			"Cash In":    models.TransactionKindDeposit,
			"dépôt":      models.TransactionKindDeposit,
			"withdrawal": models.TransactionKindWithdraw,
			"Commission": models.TransactionKindFee,
		}
		for in, want := range cases {
			got, ok := ParseKind(in)
			if !ok || got != want {
				t.Errorf("expected %s for %q, got %s (ok=%v)", want, in, got, ok)
			}
		}
		if _, ok := ParseKind("hold"); ok {
			t.Error("expected hold to be rejected")
		}
	})

	t.Run("asset_types", func(t *testing.T) {
		cases := map[string]models.AssetType{
			"etf":    models.AssetTypeETF,
			"Equity": models.AssetTypeStock,
			"action": models.AssetTypeStock,
			"Token":  models.AssetTypeCrypto,
		}
		for in, want := range cases {
			got, ok := ParseAssetType(in)
			if !ok || got != want {
				t.Errorf("expected %s for %q, got %s (ok=%v)", want, in, got, ok)
			}
		}
		if _, ok := ParseAssetType("bond"); ok {
			t.Error("expected bond to be rejected")
		}
	})

	t.Run("currency_inference", func(t *testing.T) {
		cases := map[string]string{
			"VUSA.L":  "GBP",
			"VUSA.LN": "GBP",
			"AIR.PA":  "EUR",
			"NESN.SW": "CHF",
			"SHOP.TO": "CAD",
			"7203.T":  "JPY",
			"btc-usd": "USD",
			"ETH-EUR": "EUR",
		}
		for in, want := range cases {
			got, ok := InferCurrencyFromSymbol(in)
			if !ok || got != want {
				t.Errorf("expected %s for %q, got %s", want, in, got)
			}
		}
		if _, ok := InferCurrencyFromSymbol("AAPL"); ok {
			t.Error("expected AAPL to have no inferred currency")
		}
	})

	t.Run("normalize_currency", func(t *testing.T) {
		if got, ok := NormalizeCurrency(" usd "); !ok || got != "USD" {
			t.Errorf("expected USD, got %q", got)
		}
		if _, ok := NormalizeCurrency("euro"); ok {
			t.Error("expected euro to be rejected")
		}
	})
}
