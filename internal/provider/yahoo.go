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
)

const (
	yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooSuffixes maps broker-style listing suffixes to the Yahoo ones.
var yahooSuffixes = map[string]string{
	".LN": ".L",
	".FP": ".PA",
	".NA": ".AS",
	".GY": ".DE",
	".SE": ".SW",
	".CN": ".TO",
}

var hundred = decimal.NewFromInt(100)

// yahooChartMeta is the part of a chart result carrying the last price.
type yahooChartMeta struct {
	Symbol             string          `json:"symbol"`
	Currency           string          `json:"currency"`
	RegularMarketPrice decimal.Decimal `json:"regularMarketPrice"`
	RegularMarketTime  int64           `json:"regularMarketTime"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooChartResponse is the top-level v8 chart API response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta yahooChartMeta `json:"meta"`
		} `json:"result"`
		Error *yahooChartError `json:"error"`
	} `json:"chart"`
}

// fetchYahooChart returns the chart meta of one Yahoo ticker.
func fetchYahooChart(ctx context.Context, client *http.Client, baseURL, ticker string) (yahooChartMeta, error) {
	endpoint := baseURL + "/" + url.PathEscape(ticker) + "?interval=1d&range=1d"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return yahooChartMeta{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := client.Do(req)
	if err != nil {
		return yahooChartMeta{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var chartResp yahooChartResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&chartResp)
	if decodeErr == nil && chartResp.Chart.Error != nil {
		return yahooChartMeta{}, errors.New(chartResp.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return yahooChartMeta{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return yahooChartMeta{}, fmt.Errorf("decoding response: %w", decodeErr)
	}
	if len(chartResp.Chart.Result) == 0 {
		return yahooChartMeta{}, fmt.Errorf("no chart results for %s", ticker)
	}
	meta := chartResp.Chart.Result[0].Meta
	if !meta.RegularMarketPrice.IsPositive() {
		return yahooChartMeta{}, fmt.Errorf("invalid price for %s: %s", ticker, meta.RegularMarketPrice)
	}
	return meta, nil
}

// YahooProvider fetches quotes from the Yahoo Finance chart API for listed
// stocks and ETFs.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance quote provider.
func NewYahooProvider(httpClient *http.Client, baseURL string) *YahooProvider {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooProvider{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Supports returns true for stock and etf asset types.
func (p *YahooProvider) Supports(assetType models.AssetType) bool {
	return assetType == models.AssetTypeStock || assetType == models.AssetTypeETF
}

// yahooTicker rewrites a broker listing suffix into the Yahoo one.
func yahooTicker(symbol string) string {
	for suffix, yahoo := range yahooSuffixes {
		if strings.HasSuffix(symbol, suffix) {
			return strings.TrimSuffix(symbol, suffix) + yahoo
		}
	}
	return symbol
}

// FetchQuotes fetches one chart per asset.
func (p *YahooProvider) FetchQuotes(ctx context.Context, assets []Asset) QuoteResult {
	return quoteEach(ctx, assets, p.fetchSymbol)
}

func (p *YahooProvider) fetchSymbol(ctx context.Context, symbol string) (decimal.Decimal, string, time.Time, error) {
	meta, err := fetchYahooChart(ctx, p.httpClient, p.baseURL, yahooTicker(symbol))
	if err != nil {
		return decimal.Zero, "", time.Time{}, err
	}

	price, currency := meta.RegularMarketPrice, meta.Currency
	// London listings are quoted in pence.
	if currency == "GBp" || currency == "GBX" {
		price, currency = price.Div(hundred), "GBP"
	}
	currency = strings.ToUpper(currency)
	if currency == "" {
		return decimal.Zero, "", time.Time{}, errors.New("Missing quote currency.")
	}

	date := time.Now().UTC()
	if meta.RegularMarketTime > 0 {
		date = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	return price, currency, date, nil
}
