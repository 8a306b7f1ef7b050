package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"folio/internal/csvimport"
	"folio/internal/services"
)

type importCmd struct {
	app      *App
	currency string
	platform string
	mapping  string
	dryRun   bool
	remember bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a broker CSV export" }
func (*importCmd) Usage() string {
	return `folio import [-currency <ccy>] [-platform <name>] [-map field=header,...] [-dry-run] [-remember] <file.csv>

  Detects the columns of a CSV export, normalizes every row and writes the
  whole file in one transaction. Nothing is written if any row is invalid.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency for rows without one (defaults to DEFAULT_CURRENCY).")
	f.StringVar(&c.platform, "platform", "", "Platform for rows without one.")
	f.StringVar(&c.mapping, "map", "", "Column overrides as field=header pairs, comma separated.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Parse and report without writing.")
	f.BoolVar(&c.remember, "remember", false, "Remember the column mapping for files with the same headers.")
}

// parseMapping reads "field=header,field=header" overrides.
func parseMapping(raw string) (csvimport.Mapping, error) {
	mapping := csvimport.Mapping{}
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		field, header, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q, expected field=header", pair)
		}
		f := csvimport.Field(strings.TrimSpace(field))
		if !f.Valid() {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		mapping[f] = strings.TrimSpace(header)
	}
	return mapping, nil
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(c.app.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	mapping, err := parseMapping(c.mapping)
	if err != nil {
		fmt.Fprintln(c.app.Err, err)
		return subcommands.ExitUsageError
	}

	text, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return c.app.fail("Error reading %s: %v", f.Arg(0), err)
	}

	db, err := c.app.Open()
	if err != nil {
		return c.app.fail("Error opening database: %v", err)
	}

	currency := c.currency
	if currency == "" && c.app.Config != nil {
		currency = c.app.Config.DefaultCurrency
	}
	opts := services.ImportOptions{
		DefaultCurrency: strings.ToUpper(currency),
		DefaultPlatform: c.platform,
		Mapping:         mapping,
	}

	ttl := defaultTemplateTTL
	if c.app.Config != nil {
		ttl = c.app.Config.MappingCacheTTL
	}
	svc := services.NewImportService(db, services.NewMappingTemplateService(db, ttl), c.app.Rates)

	preview, err := svc.Preview(string(text), opts)
	if err != nil {
		return c.app.fail("Error parsing %s: %v", f.Arg(0), err)
	}
	c.printPreview(preview)
	if c.dryRun {
		return subcommands.ExitSuccess
	}

	result, err := svc.Commit(ctx, string(text), opts, c.remember)
	if err != nil {
		return c.app.fail("Import failed: %v", err)
	}
	c.app.printf("Imported %d transactions (%d new platforms, %d new assets, %d prices).\n",
		result.TransactionsCreated, result.PlatformsCreated, result.AssetsCreated, result.PricesCreated)
	for _, msg := range result.FxMessages {
		c.app.printf("%s\n", msg)
	}
	return subcommands.ExitSuccess
}

func (c *importCmd) printPreview(p *services.ImportPreview) {
	c.app.printf("Columns:\n")
	for _, field := range csvimport.Fields {
		header, ok := p.Mapping[field]
		if !ok {
			continue
		}
		c.app.printf("  %-13s <- %q (%.0f%%)\n", field, header, p.Confidence[field]*100)
	}
	if p.TemplateApplied {
		c.app.printf("Using the remembered mapping for these headers.\n")
	}
	for _, e := range p.Errors {
		if e.Row == 0 {
			c.app.printf("Error: %s\n", e.Message)
			continue
		}
		c.app.printf("Row %d: %s\n", e.Row, e.Message)
	}
	c.app.printf("%s\n", p.Message)
}
