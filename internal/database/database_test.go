package database

import (
	"path/filepath"
	"testing"

	"folio/internal/config"
	"folio/internal/models"
)

func TestConfigURLs(t *testing.T) {
	cfg := NewConfig(&config.Config{
		DBDriver:   "postgres",
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "folio",
		DBPassword: "p@ss",
		DBName:     "ledger",
		DBSSLMode:  "disable",
	})

	if got := cfg.DSN(); got != "host=db port=5432 user=folio password=p@ss dbname=ledger sslmode=disable" {
		t.Errorf("unexpected DSN %q", got)
	}
	if got := cfg.MigrateURL(); got != "postgres://folio:p%40ss@db:5432/ledger?sslmode=disable" {
		t.Errorf("unexpected migrate URL %q", got)
	}
	if got := cfg.SourceURL(); got != "file://migrations" {
		t.Errorf("expected default source, got %q", got)
	}
}

func TestNewManager_UnknownDriver(t *testing.T) {
	if _, err := NewManager(&Config{Driver: "mysql"}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSQLiteManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.db")
	m, err := NewManager(&Config{Driver: DriverSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("unexpected migration error: %v", err)
	}
	if err := m.DB().Create(&models.Platform{Name: "DEGIRO"}).Error; err != nil {
		t.Fatalf("expected writable schema, got %v", err)
	}
	if err := m.RunMigrations(); err != nil {
		t.Errorf("expected migrations to be repeatable, got %v", err)
	}
}
