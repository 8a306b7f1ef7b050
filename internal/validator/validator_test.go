package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Currency string `validate:"iso4217"`
	Type     string `validate:"asset_type"`
	Kind     string `validate:"transaction_kind"`
	Pair     string `validate:"fx_pair"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	valid := sample{Currency: "USD", Type: "ETF", Kind: "WITHDRAW", Pair: "GBP/EUR"}
	if err := newValidate().Struct(valid); err != nil {
		t.Fatalf("expected valid sample, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*sample)
		field  string
	}{
		{"lowercase_currency", func(s *sample) { s.Currency = "usd" }, "Currency"},
		{"unknown_currency", func(s *sample) { s.Currency = "ABC" }, "Currency"},
		{"lowercase_asset_type", func(s *sample) { s.Type = "etf" }, "Type"},
		{"unknown_kind", func(s *sample) { s.Kind = "DIVIDEND" }, "Kind"},
		{"pair_against_usd", func(s *sample) { s.Pair = "GBP/USD" }, "Pair"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := newValidate().Struct(s)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			errs := err.(validator.ValidationErrors)
			if len(errs) != 1 || errs[0].Field() != tt.field {
				t.Errorf("expected error on %s, got %v", tt.field, errs)
			}
		})
	}
}
