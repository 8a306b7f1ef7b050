package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"folio/internal/models"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const frankfurterBaseURL = "https://api.frankfurter.app"

// fetchConcurrently runs lookup for every currency in its own goroutine and
// collects the outcomes.
func fetchConcurrently(ctx context.Context, currencies []string, lookup func(context.Context, string) (decimal.Decimal, error)) RateResult {
	unique := UniqueCurrencies(currencies)
	result := RateResult{Rates: make(map[string]decimal.Decimal, len(unique)), Errors: []RateError{}}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, currency := range unique {
		wg.Add(1)
		go func(currency string) {
			defer wg.Done()
			rate, err := lookup(ctx, currency)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, RateError{Currency: currency, Message: err.Error()})
				return
			}
			result.Rates[currency] = rate
		}(currency)
	}
	wg.Wait()
	return result
}

// FrankfurterProvider fetches ECB reference rates from the Frankfurter API.
type FrankfurterProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewFrankfurterProvider creates a Frankfurter FX provider.
func NewFrankfurterProvider(httpClient *http.Client, baseURL string) *FrankfurterProvider {
	if baseURL == "" {
		baseURL = frankfurterBaseURL
	}
	return &FrankfurterProvider{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the provider's display name.
func (p *FrankfurterProvider) Name() string { return "Frankfurter" }

// FetchRates looks up every currency against EUR concurrently.
func (p *FrankfurterProvider) FetchRates(ctx context.Context, currencies []string) RateResult {
	return fetchConcurrently(ctx, currencies, p.fetchRate)
}

func (p *FrankfurterProvider) fetchRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("from", currency)
	q.Set("to", models.ReportingCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding response: %w", err)
	}
	rate, ok := payload.Rates[models.ReportingCurrency]
	if !ok {
		return decimal.Zero, errors.New("No EUR conversion returned.")
	}
	return rate, nil
}

// yahooRateTTL bounds how long a Yahoo FX rate is reused.
const yahooRateTTL = 10 * time.Minute

// YahooForexProvider fetches rates from the Yahoo Finance chart API using
// "CCYEUR=X" tickers. Rates are cached for yahooRateTTL.
type YahooForexProvider struct {
	httpClient *http.Client
	baseURL    string       // overridable for tests
	rates      *cache.Cache // e.g. "USD" -> 0.92 (1 USD = 0.92 EUR)
}

// NewYahooForexProvider creates a Yahoo FX provider.
func NewYahooForexProvider(httpClient *http.Client, baseURL string) *YahooForexProvider {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooForexProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		rates:      cache.New(yahooRateTTL, 2*yahooRateTTL),
	}
}

// Name returns the provider's display name.
func (p *YahooForexProvider) Name() string { return "Yahoo Finance FX" }

// FetchRates looks up every currency against EUR concurrently.
func (p *YahooForexProvider) FetchRates(ctx context.Context, currencies []string) RateResult {
	return fetchConcurrently(ctx, currencies, p.GetRate)
}

// GetRate fetches (or returns cached) the EUR value of one unit of currency.
func (p *YahooForexProvider) GetRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	from := strings.ToUpper(strings.TrimSpace(currency))
	if from == models.ReportingCurrency {
		return decimal.NewFromInt(1), nil
	}

	if cached, ok := p.rates.Get(from); ok {
		return cached.(decimal.Decimal), nil
	}

	meta, err := fetchYahooChart(ctx, p.httpClient, p.baseURL, from+models.ReportingCurrency+"=X")
	if err != nil {
		return decimal.Zero, err
	}

	p.rates.SetDefault(from, meta.RegularMarketPrice)

	return meta.RegularMarketPrice, nil
}

// FallbackRateProvider asks each provider in turn for the currencies the
// previous ones could not convert.
type FallbackRateProvider struct {
	providers []RateProvider
}

// NewFallbackRateProvider chains providers in priority order.
func NewFallbackRateProvider(providers ...RateProvider) *FallbackRateProvider {
	return &FallbackRateProvider{providers: providers}
}

// Name joins the chained provider names.
func (p *FallbackRateProvider) Name() string {
	names := make([]string, len(p.providers))
	for i, rp := range p.providers {
		names[i] = rp.Name()
	}
	return strings.Join(names, ", ")
}

// FetchRates reports the last provider's message for currencies no provider
// could convert.
func (p *FallbackRateProvider) FetchRates(ctx context.Context, currencies []string) RateResult {
	remaining := UniqueCurrencies(currencies)
	result := RateResult{Rates: make(map[string]decimal.Decimal, len(remaining)), Errors: []RateError{}}
	lastErr := make(map[string]string, len(remaining))

	for _, rp := range p.providers {
		if len(remaining) == 0 {
			break
		}
		fetched := rp.FetchRates(ctx, remaining)
		for _, e := range fetched.Errors {
			lastErr[e.Currency] = e.Message
		}
		next := remaining[:0:0]
		for _, currency := range remaining {
			if rate, ok := fetched.Rates[currency]; ok {
				result.Rates[currency] = rate
				continue
			}
			next = append(next, currency)
		}
		remaining = next
	}

	for _, currency := range remaining {
		msg, ok := lastErr[currency]
		if !ok {
			msg = "No EUR conversion returned."
		}
		result.Errors = append(result.Errors, RateError{Currency: currency, Message: msg})
	}
	return result
}
