// Package oracle refreshes market data: it fetches live quotes and FX rates
// from the configured providers and records them as snapshots.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"folio/internal/models"
	"folio/internal/provider"
	"folio/internal/services"
)

// AssetLister returns every asset to quote.
type AssetLister interface {
	AllAssets() ([]models.Asset, error)
}

// PriceRecorder stores quotes as price snapshots.
type PriceRecorder interface {
	RecordPrices(prices []services.PriceInput) (int, error)
}

// RateRecorder stores FX observations.
type RateRecorder interface {
	RecordRate(currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error)
}

// RunResult contains the outcome of a refresh.
type RunResult struct {
	AssetsQuoted   int                   `json:"assets_quoted"`
	PricesRecorded int                   `json:"prices_recorded"`
	RatesRecorded  int                   `json:"rates_recorded"`
	QuoteErrors    []provider.QuoteError `json:"quote_errors"`
	RateErrors     []provider.RateError  `json:"rate_errors"`
	Duration       time.Duration         `json:"duration"`
}

// Refresher fetches quotes and FX rates and records them.
type Refresher struct {
	assets AssetLister
	prices PriceRecorder
	fx     RateRecorder
	quotes []provider.QuoteProvider
	rates  provider.RateProvider
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewRefresher creates a Refresher. Quote providers are tried in order: an
// asset goes to the first one that supports its type. rates may be nil.
func NewRefresher(assets AssetLister, prices PriceRecorder, fx RateRecorder, quotes []provider.QuoteProvider, rates provider.RateProvider, logger *zap.SugaredLogger) *Refresher {
	return &Refresher{
		assets: assets,
		prices: prices,
		fx:     fx,
		quotes: quotes,
		rates:  rates,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes a single refresh: load assets, quote them, fetch and record FX
// for every non-EUR currency involved, then record prices in each asset's own
// currency. A quote that cannot be converted is reported and not recorded.
func (r *Refresher) Run(ctx context.Context) (*RunResult, error) {
	start := r.now()
	result := &RunResult{
		QuoteErrors: []provider.QuoteError{},
		RateErrors:  []provider.RateError{},
	}

	assets, err := r.assets.AllAssets()
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		r.logger.Info("No assets found, nothing to refresh")
		result.Duration = r.now().Sub(start)
		return result, nil
	}

	quotes, quoteErrors := r.fetchQuotes(ctx, assets)
	result.QuoteErrors = append(result.QuoteErrors, quoteErrors...)

	currencies := make([]string, 0, len(assets)+len(quotes))
	for _, a := range assets {
		currencies = append(currencies, a.Currency)
	}
	for _, q := range quotes {
		currencies = append(currencies, q.Currency)
	}
	rates, recorded, rateErrors := r.refreshRates(ctx, provider.UniqueCurrencies(currencies))
	result.RatesRecorded = recorded
	result.RateErrors = append(result.RateErrors, rateErrors...)

	byID := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	inputs := make([]services.PriceInput, 0, len(quotes))
	for _, q := range quotes {
		asset := byID[q.AssetID]
		price, currency, ok := inAssetCurrency(q, asset.Currency, rates)
		if !ok {
			r.logger.Warnw("Quote not convertible", "symbol", asset.Symbol, "from", q.Currency, "to", asset.Currency)
			result.QuoteErrors = append(result.QuoteErrors, provider.QuoteError{
				AssetID: q.AssetID,
				Symbol:  asset.Symbol,
				Message: fmt.Sprintf("No FX rate to convert %s quote to %s.", q.Currency, asset.Currency),
			})
			continue
		}
		inputs = append(inputs, services.PriceInput{
			AssetID:  q.AssetID,
			Date:     q.Date,
			Price:    price,
			Currency: currency,
		})
	}
	result.AssetsQuoted = len(inputs)

	if len(inputs) > 0 {
		recorded, err := r.prices.RecordPrices(inputs)
		if err != nil {
			return nil, err
		}
		result.PricesRecorded = recorded
	}

	result.Duration = r.now().Sub(start)
	r.logger.Infow("Market data refreshed",
		"assets", len(assets),
		"quoted", result.AssetsQuoted,
		"prices", result.PricesRecorded,
		"rates", result.RatesRecorded,
		"quote_errors", len(result.QuoteErrors),
		"rate_errors", len(result.RateErrors),
		"duration", result.Duration,
	)
	return result, nil
}

// fetchQuotes groups assets by the first provider supporting their type and
// queries each provider concurrently. Results keep provider order.
func (r *Refresher) fetchQuotes(ctx context.Context, assets []models.Asset) ([]provider.Quote, []provider.QuoteError) {
	groups := make([][]provider.Asset, len(r.quotes))
	var unsupported []provider.QuoteError
	for _, a := range assets {
		matched := false
		for i, p := range r.quotes {
			if p.Supports(a.Type) {
				groups[i] = append(groups[i], provider.AssetFrom(a))
				matched = true
				break
			}
		}
		if !matched {
			r.logger.Warnw("No provider supports asset type", "symbol", a.Symbol, "type", a.Type)
			unsupported = append(unsupported, provider.QuoteError{
				AssetID: a.ID,
				Symbol:  a.Symbol,
				Message: provider.MessageNoLivePrice,
			})
		}
	}

	results := make([]provider.QuoteResult, len(r.quotes))
	var wg sync.WaitGroup
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, p provider.QuoteProvider, group []provider.Asset) {
			defer wg.Done()
			r.logger.Infow("Fetching quotes", "provider", p.Name(), "count", len(group))
			results[i] = p.FetchQuotes(ctx, group)
		}(i, r.quotes[i], group)
	}
	wg.Wait()

	var (
		quotes []provider.Quote
		errs   []provider.QuoteError
	)
	for i, res := range results {
		quotes = append(quotes, res.Quotes...)
		errs = append(errs, res.Errors...)
		for _, e := range res.Errors {
			r.logger.Warnw("Quote failed", "provider", r.quotes[i].Name(), "symbol", e.Symbol, "message", e.Message)
		}
	}
	return quotes, append(errs, unsupported...)
}

// inAssetCurrency expresses a quote in the asset's currency through EUR.
// rates holds EUR per unit of each fetched currency.
func inAssetCurrency(q provider.Quote, assetCurrency string, rates map[string]decimal.Decimal) (decimal.Decimal, string, bool) {
	from := strings.ToUpper(strings.TrimSpace(q.Currency))
	to := strings.ToUpper(strings.TrimSpace(assetCurrency))
	if to == "" || from == to {
		return q.Price, q.Currency, true
	}
	fromRate, ok := eurRate(rates, from)
	if !ok {
		return decimal.Decimal{}, "", false
	}
	toRate, ok := eurRate(rates, to)
	if !ok || toRate.IsZero() {
		return decimal.Decimal{}, "", false
	}
	return q.Price.Mul(fromRate).Div(toRate), to, true
}

func eurRate(rates map[string]decimal.Decimal, currency string) (decimal.Decimal, bool) {
	if currency == models.ReportingCurrency {
		return decimal.NewFromInt(1), true
	}
	rate, ok := rates[currency]
	return rate, ok
}

// refreshRates fetches and records one rate per currency. The fetched rates
// are returned whether or not recording them succeeded.
func (r *Refresher) refreshRates(ctx context.Context, currencies []string) (map[string]decimal.Decimal, int, []provider.RateError) {
	if r.rates == nil || len(currencies) == 0 {
		return nil, 0, nil
	}

	fetched := r.rates.FetchRates(ctx, currencies)
	errs := append([]provider.RateError{}, fetched.Errors...)
	now := r.now()
	recorded := 0
	for _, currency := range currencies {
		rate, ok := fetched.Rates[currency]
		if !ok {
			continue
		}
		if _, err := r.fx.RecordRate(currency, rate, now); err != nil {
			r.logger.Errorw("Failed to record FX rate", "currency", currency, "error", err)
			errs = append(errs, provider.RateError{Currency: currency, Message: err.Error()})
			continue
		}
		recorded++
	}
	return fetched.Rates, recorded, errs
}
