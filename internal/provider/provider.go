// Package provider defines the interfaces for fetching live quotes and FX
// rates from external data sources, and their HTTP implementations.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

// MessageNoLivePrice is reported for an asset none of whose candidate
// symbols could be tried.
const MessageNoLivePrice = "No live price available."

// Asset is the subset of an asset a quote provider needs.
type Asset struct {
	ID       string
	Symbol   string
	Type     models.AssetType
	Currency string
}

// AssetFrom converts a stored asset.
func AssetFrom(a models.Asset) Asset {
	return Asset{ID: a.ID, Symbol: a.Symbol, Type: a.Type, Currency: a.Currency}
}

// Quote is a successfully fetched price for an asset.
type Quote struct {
	AssetID      string          `json:"asset_id"`
	SourceSymbol string          `json:"source_symbol"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Date         time.Time       `json:"date"`
}

// QuoteError represents a failed quote for a specific asset. Message is
// the failure of the last candidate symbol tried.
type QuoteError struct {
	AssetID string `json:"asset_id"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *QuoteError) Error() string {
	return fmt.Sprintf("failed to fetch quote for %s (ID %s): %s", e.Symbol, e.AssetID, e.Message)
}

// QuoteResult holds every quote and every per-asset failure of one fetch.
type QuoteResult struct {
	Quotes []Quote      `json:"quotes"`
	Errors []QuoteError `json:"errors"`
}

// RateError represents a failed FX lookup for one currency.
type RateError struct {
	Currency string `json:"currency"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (e *RateError) Error() string {
	return fmt.Sprintf("failed to fetch %s/EUR rate: %s", e.Currency, e.Message)
}

// RateResult maps currency to the EUR value of one unit, plus failures.
type RateResult struct {
	Rates  map[string]decimal.Decimal `json:"rates"`
	Errors []RateError                `json:"errors"`
}

// QuoteProvider fetches current market prices for a set of assets.
type QuoteProvider interface {
	// Name returns the provider's display name (e.g., "Twelve Data").
	Name() string

	// Supports returns true if this provider can quote the given asset type.
	Supports(assetType models.AssetType) bool

	// FetchQuotes fetches a quote per asset. A provider should return as
	// many quotes as possible, even if some fail.
	FetchQuotes(ctx context.Context, assets []Asset) QuoteResult
}

// RateProvider fetches conversion rates to EUR.
type RateProvider interface {
	Name() string

	// FetchRates looks up every currency independently; one failure never
	// affects the others. EUR and blanks are skipped.
	FetchRates(ctx context.Context, currencies []string) RateResult
}

// CandidateSymbols returns the provider symbols to try for an asset, in
// order. Crypto assets are tried as pairs against EUR and USD first.
func CandidateSymbols(a Asset) []string {
	symbol := strings.ToUpper(strings.TrimSpace(a.Symbol))
	if a.Type != models.AssetTypeCrypto {
		return []string{symbol}
	}
	switch {
	case strings.Contains(symbol, "/"):
		return []string{symbol}
	case strings.Contains(symbol, "-"):
		return []string{strings.Replace(symbol, "-", "/", 1), symbol}
	case strings.ToUpper(a.Currency) == models.ReportingCurrency:
		return []string{symbol + "/EUR", symbol + "/USD", symbol}
	}
	return []string{symbol + "/USD", symbol + "/EUR", symbol}
}

// symbolQuote fetches the quote of one provider symbol.
type symbolQuote func(ctx context.Context, symbol string) (decimal.Decimal, string, time.Time, error)

// quoteEach tries every asset's candidates in order, one attempt each, and
// keeps the first success.
func quoteEach(ctx context.Context, assets []Asset, fetch symbolQuote) QuoteResult {
	result := QuoteResult{Quotes: []Quote{}, Errors: []QuoteError{}}
	for _, a := range assets {
		lastErr := MessageNoLivePrice
		found := false
		for _, candidate := range CandidateSymbols(a) {
			price, currency, date, err := fetch(ctx, candidate)
			if err != nil {
				lastErr = err.Error()
				continue
			}
			result.Quotes = append(result.Quotes, Quote{
				AssetID:      a.ID,
				SourceSymbol: candidate,
				Price:        price,
				Currency:     currency,
				Date:         date,
			})
			found = true
			break
		}
		if !found {
			result.Errors = append(result.Errors, QuoteError{AssetID: a.ID, Symbol: a.Symbol, Message: lastErr})
		}
	}
	return result
}

// UniqueCurrencies upper-cases and dedupes currencies, dropping blanks and
// the reporting currency. Input order is kept.
func UniqueCurrencies(currencies []string) []string {
	seen := make(map[string]bool, len(currencies))
	out := make([]string, 0, len(currencies))
	for _, c := range currencies {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || c == models.ReportingCurrency || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
