package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/csvimport"
	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/valuation"
)

// PlatformServicer defines the contract for platform-related business logic.
type PlatformServicer interface {
	CreatePlatform(name string) (*models.Platform, error)
	GetPlatformByID(id string) (*models.Platform, error)
	ListPlatforms(page pagination.PageRequest) (*pagination.PageResponse[models.Platform], error)
	RenamePlatform(id, name string) (*models.Platform, error)
	DeletePlatform(id string) error
}

// AssetInput holds the writable fields of an asset.
type AssetInput struct {
	Type     models.AssetType
	Symbol   string
	Name     string
	Currency string
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(in AssetInput) (*models.Asset, error)
	GetAssetByID(id string) (*models.Asset, error)
	ListAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	AllAssets() ([]models.Asset, error)
	UpdateAsset(id string, in AssetInput) (*models.Asset, error)
	DeleteAsset(id string) error
}

// TransactionInput holds the fields of a new ledger line.
type TransactionInput struct {
	PlatformID string
	AssetID    *string
	Kind       models.TransactionKind
	Date       time.Time
	Qty        decimal.NullDecimal
	Price      decimal.NullDecimal
	Fee        decimal.NullDecimal
	Amount     decimal.NullDecimal
	Currency   string
	Note       string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	PlatformID *string
	AssetID    *string
	Kind       *models.TransactionKind
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionServicer defines the contract for ledger lines.
type TransactionServicer interface {
	CreateTransaction(in TransactionInput) (*models.Transaction, error)
	GetTransactionByID(id string) (*models.Transaction, error)
	ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	DeleteTransaction(id string) error
}

// PriceInput is a single price observation to record.
type PriceInput struct {
	AssetID  string
	Date     time.Time
	Price    decimal.Decimal
	Currency string
}

// PriceServicer defines the contract for price snapshots.
type PriceServicer interface {
	RecordPrices(prices []PriceInput) (int, error)
	ListAssetPrices(assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.PriceSnapshot], error)
	DeletePrice(id string) error
}

// FxServicer defines the contract for FX snapshots.
type FxServicer interface {
	RecordRate(currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error)
	ListRates(pair string, page pagination.PageRequest) (*pagination.PageResponse[models.FxSnapshot], error)
	LatestRate(pair string) (*models.FxSnapshot, error)
	DeleteRate(id string) error
}

// MappingTemplateServicer remembers confirmed column mappings per header
// signature.
type MappingTemplateServicer interface {
	Get(signature string) (*models.MappingTemplate, bool, error)
	Put(signature string, mapping csvimport.Mapping, broker string) error
}

// ImportOptions tune a CSV import.
type ImportOptions struct {
	DefaultCurrency string            `json:"default_currency"`
	DefaultPlatform string            `json:"default_platform"`
	Mapping         csvimport.Mapping `json:"mapping"`
}

// ImportPreview is the outcome of parsing a CSV without persisting it.
type ImportPreview struct {
	Signature        string                      `json:"signature"`
	Headers          []string                    `json:"headers"`
	SuggestedMapping csvimport.Mapping           `json:"suggested_mapping"`
	Mapping          csvimport.Mapping           `json:"mapping"`
	Confidence       map[csvimport.Field]float64 `json:"confidence"`
	NeedsReview      []csvimport.Field           `json:"needs_review"`
	DefaultPlatform  string                      `json:"default_platform,omitempty"`
	Records          []csvimport.Row             `json:"records"`
	Errors           []csvimport.RowError        `json:"errors"`
	State            csvimport.State             `json:"state"`
	Message          string                      `json:"message"`
	TemplateApplied  bool                        `json:"template_applied"`
}

// ImportResult counts what a committed import created.
type ImportResult struct {
	TransactionsCreated int      `json:"transactions_created"`
	PlatformsCreated    int      `json:"platforms_created"`
	AssetsCreated       int      `json:"assets_created"`
	PricesCreated       int      `json:"prices_created"`
	FxMessages          []string `json:"fx_messages"`
}

// ImportServicer defines the contract for the CSV import workflow.
type ImportServicer interface {
	Preview(text string, opts ImportOptions) (*ImportPreview, error)
	Commit(ctx context.Context, text string, opts ImportOptions, remember bool) (*ImportResult, error)
}

// PortfolioServicer values the ledger.
type PortfolioServicer interface {
	GetSummary() (*valuation.Summary, error)
	GetHistory() ([]valuation.HistoryPoint, error)
}

// SeedResult counts the sample rows inserted.
type SeedResult struct {
	Platforms    int `json:"platforms"`
	Assets       int `json:"assets"`
	Transactions int `json:"transactions"`
	Prices       int `json:"prices"`
	FxRates      int `json:"fx_rates"`
}

// AdminServicer defines maintenance operations.
type AdminServicer interface {
	ResetDatabase() error
	SeedSampleData() (*SeedResult, error)
}
