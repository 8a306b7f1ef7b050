// Package cli implements the folio command line tool on top of the ledger
// services.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"gorm.io/gorm"

	"folio/internal/config"
	"folio/internal/provider"
)

// App carries what every subcommand needs. Open is called lazily so that
// help output never touches the database.
type App struct {
	Config *config.Config
	Open   func() (*gorm.DB, error)
	Quotes []provider.QuoteProvider
	Rates  provider.RateProvider
	Out    io.Writer
	Err    io.Writer

	// Render turns a markdown report into terminal output.
	Render func(markdown string) (string, error)
}

// Register adds every folio subcommand to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&importCmd{app: app}, "ledger")
	c.Register(&seedCmd{app: app}, "ledger")
	c.Register(&resetCmd{app: app}, "ledger")
	c.Register(&summaryCmd{app: app}, "reports")
	c.Register(&historyCmd{app: app}, "reports")
	c.Register(&refreshCmd{app: app}, "market data")
}

// RenderTerminal renders markdown with glamour's auto-detected style.
func RenderTerminal(markdown string) (string, error) {
	return glamour.Render(markdown, "auto")
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, format+"\n", args...)
	return subcommands.ExitFailure
}

// printReport renders markdown, falling back to the raw text.
func (a *App) printReport(markdown string) {
	if a.Render == nil {
		fmt.Fprint(a.Out, markdown)
		return
	}
	out, err := a.Render(markdown)
	if err != nil {
		fmt.Fprint(a.Out, markdown)
		return
	}
	fmt.Fprint(a.Out, out)
}
