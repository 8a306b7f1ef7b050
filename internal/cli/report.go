package cli

import (
	"fmt"
	"strings"

	"folio/internal/valuation"
)

// summaryMarkdown renders a valuation summary as markdown tables.
func summaryMarkdown(s *valuation.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio\n\n**Total value:** %s\n\n", formatEUR(s.TotalValueEUR))
	if len(s.Positions) == 0 {
		b.WriteString("No open positions.\n")
		return b.String()
	}

	b.WriteString("## By platform\n\n| Platform | Value |\n|---|---:|\n")
	for _, p := range s.ByPlatform {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Name, formatEUR(p.ValueEUR))
	}

	b.WriteString("\n## By type\n\n| Type | Value |\n|---|---:|\n")
	for _, t := range s.ByType {
		fmt.Fprintf(&b, "| %s | %s |\n", t.Type, formatEUR(t.ValueEUR))
	}

	b.WriteString("\n## Holdings\n\n| Ticker | Qty | Price | Value |\n|---|---:|---:|---:|\n")
	for _, h := range s.ByTicker {
		price := notAvailable
		if h.LatestPrice.Valid {
			price = formatMoney(h.LatestPrice.Decimal, h.Asset.Currency)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Asset.Symbol, h.Qty.String(), price, formatEUR(h.ValueEUR))
	}
	return b.String()
}

// historyMarkdown renders the valuation timeline, one row per date.
func historyMarkdown(points []valuation.HistoryPoint) string {
	var b strings.Builder

	b.WriteString("# History\n\n")
	if len(points) == 0 {
		b.WriteString("No transactions yet.\n")
		return b.String()
	}

	b.WriteString("| Date | Total | Known value | Missing data |\n|---|---:|---:|:---:|\n")
	for _, p := range points {
		missing := ""
		if p.HasMissingData {
			missing = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			p.Date.Format("2006-01-02"), formatEUR(p.TotalValueEUR), formatMoney(p.KnownValueEUR, "EUR"), missing)
	}
	return b.String()
}
