package valuation

import (
	"sort"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

// History reconstructs the portfolio value at every date referenced by a
// trade, a price or an FX observation.
func History(in Input) []HistoryPoint {
	assets := make(map[string]models.Asset, len(in.Assets))
	for _, a := range in.Assets {
		assets[a.ID] = a
	}
	return history(in, assets)
}

func history(in Input, assets map[string]models.Asset) []HistoryPoint {
	trades := make([]models.Transaction, 0, len(in.Transactions))
	for _, tx := range in.Transactions {
		if tx.AssetID != nil && tx.Kind.RequiresAsset() {
			trades = append(trades, tx)
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date.Before(trades[j].Date)
	})

	timeline := buildTimeline(trades, in.Prices, in.Fx)

	pricesByAsset := make(map[string][]models.PriceSnapshot)
	for _, p := range in.Prices {
		pricesByAsset[p.AssetID] = append(pricesByAsset[p.AssetID], p)
	}

	var (
		points = []HistoryPoint{}
		qty    = map[string]decimal.Decimal{}
		held   []string
		cursor int
	)
	for _, date := range timeline {
		for cursor < len(trades) && !trades[cursor].Date.After(date) {
			tx := trades[cursor]
			id := *tx.AssetID
			if _, ok := qty[id]; !ok {
				held = append(held, id)
			}
			qty[id] = qty[id].Add(tx.SignedQty())
			cursor++
		}

		known := decimal.Zero
		missing, open := false, false
		for _, id := range held {
			q := qty[id]
			if !isOpen(q) {
				continue
			}
			open = true

			asset, ok := assets[id]
			if !ok {
				continue
			}
			price := decimal.NullDecimal{}
			if p, ok := LatestPriceAt(pricesByAsset[id], id, date); ok {
				price = decimal.NewNullDecimal(p.Price)
			}
			value := ValueEUR(q, price, LatestFxRateAt(in.Fx, asset.Currency, date))
			if !value.Valid {
				missing = true
				continue
			}
			known = known.Add(value.Decimal)
		}

		if !open {
			continue
		}
		point := HistoryPoint{Date: date, KnownValueEUR: known, HasMissingData: missing}
		if !missing {
			point.TotalValueEUR = decimal.NewNullDecimal(known)
		}
		points = append(points, point)
	}
	return points
}

// buildTimeline returns the ascending, de-duplicated dates of trades,
// prices and FX observations.
func buildTimeline(trades []models.Transaction, prices []models.PriceSnapshot, fx []models.FxSnapshot) []time.Time {
	seen := map[int64]bool{}
	var dates []time.Time
	add := func(t time.Time) {
		key := t.UnixNano()
		if !seen[key] {
			seen[key] = true
			dates = append(dates, t)
		}
	}
	for _, tx := range trades {
		add(tx.Date)
	}
	for _, p := range prices {
		add(p.Date)
	}
	for _, s := range fx {
		add(s.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
