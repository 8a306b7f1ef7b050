package provider

import (
	"net/http"

	"folio/internal/config"
)

// Defaults builds the configured quote providers, in priority order, and the
// FX chain. Yahoo quotes stocks and ETFs without a key, so it goes first;
// Twelve Data covers everything else.
func Defaults(cfg *config.Config) ([]QuoteProvider, RateProvider) {
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	quotes := []QuoteProvider{
		NewYahooProvider(client, cfg.YahooBaseURL),
		NewTwelveDataProvider(client, cfg.TwelveDataBaseURL, cfg.TwelveDataAPIKey, cfg.QuoteRatePerMinute),
	}
	rates := NewFallbackRateProvider(
		NewFrankfurterProvider(client, cfg.FrankfurterBaseURL),
		NewYahooForexProvider(client, cfg.YahooBaseURL),
	)
	return quotes, rates
}
