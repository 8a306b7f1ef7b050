package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"folio/internal/cli"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/logger"
	"folio/internal/provider"
)

var dbPath = flag.String("db", "", "Path to a SQLite ledger. Overrides the DB_* settings.")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	quotes, rates := provider.Defaults(cfg)
	var (
		once    sync.Once
		manager *database.Manager
		openErr error
	)
	app := &cli.App{
		Config: cfg,
		Quotes: quotes,
		Rates:  rates,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Render: cli.RenderTerminal,
		Open: func() (*gorm.DB, error) {
			once.Do(func() {
				manager, openErr = openLedger(cfg)
			})
			if openErr != nil {
				return nil, openErr
			}
			return manager.DB(), nil
		},
	}
	cli.Register(commander, app)

	flag.Parse()
	status := commander.Execute(context.Background())
	if manager != nil {
		_ = manager.Close()
	}
	logger.Sync()
	os.Exit(int(status))
}

// openLedger connects to the configured database and brings its schema up
// to date. -db forces a SQLite file.
func openLedger(cfg *config.Config) (*database.Manager, error) {
	var (
		manager *database.Manager
		err     error
	)
	if *dbPath != "" {
		manager, err = database.NewSQLiteManager(*dbPath)
	} else {
		manager, err = database.NewManager(database.NewConfig(cfg))
	}
	if err != nil {
		return nil, err
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		return nil, err
	}
	return manager, nil
}
