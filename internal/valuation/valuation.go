// Package valuation computes positions and EUR valuations from the ledger.
//
// Unknown prices and FX rates are carried as null decimals and make every
// aggregate that includes them unknown as well.
package valuation

import (
	"sort"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

// Epsilon below which a net quantity counts as a closed position.
var Epsilon = decimal.New(1, -12)

var one = decimal.NewFromInt(1)

// Input is the full reference data a summary is computed from.
type Input struct {
	Assets       []models.Asset
	Platforms    []models.Platform
	Transactions []models.Transaction
	Prices       []models.PriceSnapshot
	Fx           []models.FxSnapshot
}

// Position is the net holding of one asset on one platform.
type Position struct {
	AssetID         string              `json:"asset_id"`
	PlatformID      string              `json:"platform_id"`
	Asset           models.Asset        `json:"asset"`
	Platform        models.Platform     `json:"platform"`
	Qty             decimal.Decimal     `json:"qty"`
	LatestPrice     decimal.NullDecimal `json:"latest_price"`
	LatestPriceDate *time.Time          `json:"latest_price_date"`
	Currency        string              `json:"currency"`
	FxRate          decimal.NullDecimal `json:"fx_rate"`
	ValueEUR        decimal.NullDecimal `json:"value_eur"`
}

// TickerHolding is the net holding of one asset across platforms.
type TickerHolding struct {
	AssetID         string              `json:"asset_id"`
	Asset           models.Asset        `json:"asset"`
	Qty             decimal.Decimal     `json:"qty"`
	LatestPrice     decimal.NullDecimal `json:"latest_price"`
	LatestPriceDate *time.Time          `json:"latest_price_date"`
	FxRate          decimal.NullDecimal `json:"fx_rate"`
	ValueEUR        decimal.NullDecimal `json:"value_eur"`
}

// PlatformValue is the value held on one platform.
type PlatformValue struct {
	PlatformID string              `json:"platform_id"`
	Name       string              `json:"name"`
	ValueEUR   decimal.NullDecimal `json:"value_eur"`
}

// TypeValue is the value held in one asset type.
type TypeValue struct {
	Type     models.AssetType    `json:"type"`
	ValueEUR decimal.NullDecimal `json:"value_eur"`
}

// HistoryPoint is the reconstructed portfolio value at one date.
type HistoryPoint struct {
	Date           time.Time           `json:"date"`
	TotalValueEUR  decimal.NullDecimal `json:"total_value_eur"`
	KnownValueEUR  decimal.Decimal     `json:"known_value_eur"`
	HasMissingData bool                `json:"has_missing_data"`
}

// Summary aggregates every view of the portfolio.
type Summary struct {
	Positions     []Position          `json:"positions"`
	ByPlatform    []PlatformValue     `json:"by_platform"`
	ByType        []TypeValue         `json:"by_type"`
	ByTicker      []TickerHolding     `json:"by_ticker"`
	History       []HistoryPoint      `json:"history"`
	TotalValueEUR decimal.NullDecimal `json:"total_value_eur"`
}

// PositionQty returns Σ BUY qty − Σ SELL qty for one asset on one platform.
func PositionQty(txs []models.Transaction, assetID, platformID string) decimal.Decimal {
	qty := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.AssetID == nil || *tx.AssetID != assetID || tx.PlatformID != platformID {
			continue
		}
		qty = qty.Add(tx.SignedQty())
	}
	return qty
}

// LatestPrice returns the price snapshot of assetID with the greatest
// date. On equal dates the first one in input order wins.
func LatestPrice(prices []models.PriceSnapshot, assetID string) (models.PriceSnapshot, bool) {
	var (
		latest models.PriceSnapshot
		found  bool
	)
	for _, p := range prices {
		if p.AssetID != assetID {
			continue
		}
		if !found || p.Date.After(latest.Date) {
			latest, found = p, true
		}
	}
	return latest, found
}

// LatestPriceAt is LatestPrice restricted to snapshots dated at or before at.
func LatestPriceAt(prices []models.PriceSnapshot, assetID string, at time.Time) (models.PriceSnapshot, bool) {
	var (
		latest models.PriceSnapshot
		found  bool
	)
	for _, p := range prices {
		if p.AssetID != assetID || p.Date.After(at) {
			continue
		}
		if !found || p.Date.After(latest.Date) {
			latest, found = p, true
		}
	}
	return latest, found
}

// LatestFxRate returns the EUR value of one unit of currency from the most
// recent snapshot. EUR is always 1.
func LatestFxRate(fx []models.FxSnapshot, currency string) decimal.NullDecimal {
	return latestFx(fx, currency, nil)
}

// LatestFxRateAt is LatestFxRate restricted to snapshots dated at or
// before at.
func LatestFxRateAt(fx []models.FxSnapshot, currency string, at time.Time) decimal.NullDecimal {
	return latestFx(fx, currency, &at)
}

func latestFx(fx []models.FxSnapshot, currency string, at *time.Time) decimal.NullDecimal {
	if currency == models.ReportingCurrency {
		return decimal.NewNullDecimal(one)
	}
	pair := models.FxPair(currency)
	var (
		latest models.FxSnapshot
		found  bool
	)
	for _, s := range fx {
		if s.Pair != pair || (at != nil && s.Date.After(*at)) {
			continue
		}
		if !found || s.Date.After(latest.Date) {
			latest, found = s, true
		}
	}
	if !found {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(latest.Rate)
}

// ValueEUR returns qty × price × fx, or null when price or fx is null.
func ValueEUR(qty decimal.Decimal, price, fx decimal.NullDecimal) decimal.NullDecimal {
	if !price.Valid || !fx.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(qty.Mul(price.Decimal).Mul(fx.Decimal))
}

// sumInto adds v to acc, turning acc null once any member is null.
func sumInto(acc, v decimal.NullDecimal) decimal.NullDecimal {
	if !acc.Valid || !v.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(acc.Decimal.Add(v.Decimal))
}

func isOpen(qty decimal.Decimal) bool {
	return qty.Abs().GreaterThan(Epsilon)
}

// ComputeSummary values every position and builds the aggregates and the
// history timeline.
func ComputeSummary(in Input) Summary {
	assets := make(map[string]models.Asset, len(in.Assets))
	for _, a := range in.Assets {
		assets[a.ID] = a
	}
	platforms := make(map[string]models.Platform, len(in.Platforms))
	for _, p := range in.Platforms {
		platforms[p.ID] = p
	}

	positions := computePositions(in, assets, platforms)

	summary := Summary{
		Positions:     positions,
		ByPlatform:    byPlatform(positions),
		ByType:        byType(positions),
		ByTicker:      byTicker(positions),
		History:       history(in, assets),
		TotalValueEUR: decimal.NewNullDecimal(decimal.Zero),
	}
	for _, p := range positions {
		summary.TotalValueEUR = sumInto(summary.TotalValueEUR, p.ValueEUR)
	}
	return summary
}

func computePositions(in Input, assets map[string]models.Asset, platforms map[string]models.Platform) []Position {
	type groupKey struct{ asset, platform string }
	var (
		order []groupKey
		seen  = map[groupKey]bool{}
	)
	for _, tx := range in.Transactions {
		if tx.AssetID == nil {
			continue
		}
		k := groupKey{*tx.AssetID, tx.PlatformID}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	positions := make([]Position, 0, len(order))
	for _, k := range order {
		asset, ok := assets[k.asset]
		if !ok {
			continue
		}
		platform, ok := platforms[k.platform]
		if !ok {
			continue
		}

		qty := PositionQty(in.Transactions, k.asset, k.platform)
		pos := Position{
			AssetID:    k.asset,
			PlatformID: k.platform,
			Asset:      asset,
			Platform:   platform,
			Qty:        qty,
			Currency:   asset.Currency,
			FxRate:     LatestFxRate(in.Fx, asset.Currency),
		}
		if latest, ok := LatestPrice(in.Prices, k.asset); ok {
			pos.LatestPrice = decimal.NewNullDecimal(latest.Price)
			date := latest.Date
			pos.LatestPriceDate = &date
		}
		pos.ValueEUR = ValueEUR(qty, pos.LatestPrice, pos.FxRate)
		positions = append(positions, pos)
	}
	return positions
}

func byPlatform(positions []Position) []PlatformValue {
	out := []PlatformValue{}
	index := map[string]int{}
	for _, p := range positions {
		i, ok := index[p.PlatformID]
		if !ok {
			i = len(out)
			index[p.PlatformID] = i
			out = append(out, PlatformValue{
				PlatformID: p.PlatformID,
				Name:       p.Platform.Name,
				ValueEUR:   decimal.NewNullDecimal(decimal.Zero),
			})
		}
		out[i].ValueEUR = sumInto(out[i].ValueEUR, p.ValueEUR)
	}
	return out
}

func byType(positions []Position) []TypeValue {
	out := []TypeValue{}
	index := map[models.AssetType]int{}
	for _, p := range positions {
		i, ok := index[p.Asset.Type]
		if !ok {
			i = len(out)
			index[p.Asset.Type] = i
			out = append(out, TypeValue{Type: p.Asset.Type, ValueEUR: decimal.NewNullDecimal(decimal.Zero)})
		}
		out[i].ValueEUR = sumInto(out[i].ValueEUR, p.ValueEUR)
	}
	return out
}

func byTicker(positions []Position) []TickerHolding {
	holdings := []TickerHolding{}
	index := map[string]int{}
	for _, p := range positions {
		i, ok := index[p.AssetID]
		if !ok {
			index[p.AssetID] = len(holdings)
			holdings = append(holdings, TickerHolding{
				AssetID:         p.AssetID,
				Asset:           p.Asset,
				Qty:             p.Qty,
				LatestPrice:     p.LatestPrice,
				LatestPriceDate: p.LatestPriceDate,
				FxRate:          p.FxRate,
				ValueEUR:        p.ValueEUR,
			})
			continue
		}
		holdings[i].Qty = holdings[i].Qty.Add(p.Qty)
		holdings[i].ValueEUR = sumInto(holdings[i].ValueEUR, p.ValueEUR)
	}

	open := holdings[:0]
	for _, h := range holdings {
		if isOpen(h.Qty) {
			open = append(open, h)
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		switch {
		case a.ValueEUR.Valid && b.ValueEUR.Valid && !a.ValueEUR.Decimal.Equal(b.ValueEUR.Decimal):
			return a.ValueEUR.Decimal.GreaterThan(b.ValueEUR.Decimal)
		case a.ValueEUR.Valid != b.ValueEUR.Valid:
			return a.ValueEUR.Valid
		}
		return a.Asset.Symbol < b.Asset.Symbol
	})
	return open
}
