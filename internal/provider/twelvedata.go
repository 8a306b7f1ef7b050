package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

// twelveDataQuote is the /quote response. Errors come back with HTTP 200
// and status "error".
type twelveDataQuote struct {
	Status    string `json:"status"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Symbol    string `json:"symbol"`
	Currency  string `json:"currency"`
	Close     string `json:"close"`
	Timestamp int64  `json:"timestamp"`
}

// TwelveDataProvider fetches quotes for every asset type from Twelve Data.
// Requests are paced by a limiter because the free plan allows only a few
// calls per minute.
type TwelveDataProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewTwelveDataProvider creates a Twelve Data quote provider allowing
// perMinute requests per minute. A non-positive perMinute disables pacing.
func NewTwelveDataProvider(httpClient *http.Client, baseURL, apiKey string, perMinute int) *TwelveDataProvider {
	if baseURL == "" {
		baseURL = twelveDataBaseURL
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return &TwelveDataProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    limiter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Name returns the provider's display name.
func (p *TwelveDataProvider) Name() string { return "Twelve Data" }

// Supports returns true for every asset type.
func (p *TwelveDataProvider) Supports(assetType models.AssetType) bool {
	return assetType.Valid()
}

// FetchQuotes fetches one quote per asset, trying its candidate symbols in
// order.
func (p *TwelveDataProvider) FetchQuotes(ctx context.Context, assets []Asset) QuoteResult {
	return quoteEach(ctx, assets, p.fetchSymbol)
}

func (p *TwelveDataProvider) fetchSymbol(ctx context.Context, symbol string) (decimal.Decimal, string, time.Time, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return decimal.Zero, "", time.Time{}, err
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, "", time.Time{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, "", time.Time{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, "", time.Time{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var payload twelveDataQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, "", time.Time{}, fmt.Errorf("decoding response: %w", err)
	}
	if payload.Status == "error" || payload.Code != 0 {
		if payload.Message != "" {
			return decimal.Zero, "", time.Time{}, errors.New(payload.Message)
		}
		return decimal.Zero, "", time.Time{}, fmt.Errorf("Code %d", payload.Code)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(payload.Close))
	if err != nil {
		return decimal.Zero, "", time.Time{}, errors.New("No close price returned by provider.")
	}
	currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
	if currency == "" {
		return decimal.Zero, "", time.Time{}, errors.New("Missing quote currency.")
	}

	date := p.now()
	if payload.Timestamp > 0 {
		date = time.Unix(payload.Timestamp, 0).UTC()
	}
	return price, currency, date, nil
}
