package cli

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"folio/internal/logger"
	"folio/internal/oracle"
	"folio/internal/services"
)

const defaultTemplateTTL = 15 * time.Minute

type summaryCmd struct{ app *App }

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display open positions valued in EUR" }
func (*summaryCmd) Usage() string {
	return `folio summary

  Values every open position with its latest price and FX rate. The total
  is n/a when any position lacks either.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.app.Open()
	if err != nil {
		return c.app.fail("Error opening database: %v", err)
	}
	summary, err := services.NewPortfolioService(db).GetSummary()
	if err != nil {
		return c.app.fail("Error valuing portfolio: %v", err)
	}
	c.app.printReport(summaryMarkdown(summary))
	return subcommands.ExitSuccess
}

type historyCmd struct{ app *App }

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio value over time" }
func (*historyCmd) Usage() string {
	return `folio history

  Reconstructs the EUR value of the portfolio at every date with a trade,
  price or FX observation.
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.app.Open()
	if err != nil {
		return c.app.fail("Error opening database: %v", err)
	}
	points, err := services.NewPortfolioService(db).GetHistory()
	if err != nil {
		return c.app.fail("Error building history: %v", err)
	}
	c.app.printReport(historyMarkdown(points))
	return subcommands.ExitSuccess
}

type refreshCmd struct{ app *App }

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch live quotes and FX rates" }
func (*refreshCmd) Usage() string {
	return `folio refresh

  Quotes every asset and records the FX rates their currencies need.
  Individual failures are listed; they do not stop the run.
`
}
func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.app.Open()
	if err != nil {
		return c.app.fail("Error opening database: %v", err)
	}
	refresher := oracle.NewRefresher(
		services.NewAssetService(db),
		services.NewPriceService(db),
		services.NewFxService(db),
		c.app.Quotes, c.app.Rates,
		logger.Named("oracle"),
	)
	result, err := refresher.Run(ctx)
	if err != nil {
		return c.app.fail("Refresh failed: %v", err)
	}

	c.app.printf("Quoted %d assets, recorded %d prices and %d FX rates.\n",
		result.AssetsQuoted, result.PricesRecorded, result.RatesRecorded)
	for _, e := range result.QuoteErrors {
		c.app.printf("  %s: %s\n", e.Symbol, e.Message)
	}
	for _, e := range result.RateErrors {
		c.app.printf("  %s/EUR: %s\n", e.Currency, e.Message)
	}
	return subcommands.ExitSuccess
}

type seedCmd struct{ app *App }

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "insert a small sample ledger" }
func (*seedCmd) Usage() string {
	return `folio seed

  Inserts sample platforms, assets, trades, prices and an FX rate. Running
  it twice does not duplicate anything.
`
}
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (c *seedCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.app.Open()
	if err != nil {
		return c.app.fail("Error opening database: %v", err)
	}
	result, err := services.NewAdminService(db).SeedSampleData()
	if err != nil {
		return c.app.fail("Seed failed: %v", err)
	}
	c.app.printf("Seeded %d platforms, %d assets, %d transactions, %d prices, %d FX rates.\n",
		result.Platforms, result.Assets, result.Transactions, result.Prices, result.FxRates)
	return subcommands.ExitSuccess
}

type resetCmd struct {
	app *App
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete every ledger row" }
func (*resetCmd) Usage() string {
	return `folio reset -yes

  Deletes all platforms, assets, transactions, prices and FX rates.
  Remembered column mappings are kept.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset.")
}

func (c *resetCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		c.app.printf("Refusing to reset without -yes.\n")
		return subcommands.ExitUsageError
	}
	db, err := c.app.Open()
	if err != nil {
		return c.app.fail("Error opening database: %v", err)
	}
	if err := services.NewAdminService(db).ResetDatabase(); err != nil {
		return c.app.fail("Reset failed: %v", err)
	}
	c.app.printf("Database reset.\n")
	return subcommands.ExitSuccess
}
