package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"folio/internal/models"
)

// notAvailable marks a value that cannot be computed.
const notAvailable = "n/a"

// formatMoney displays amount in currency using go-money's grapheme and
// separators, rounded to the currency's minor unit.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// formatEUR displays a reporting-currency value, or n/a when unknown.
func formatEUR(v decimal.NullDecimal) string {
	if !v.Valid {
		return notAvailable
	}
	return formatMoney(v.Decimal, models.ReportingCurrency)
}
