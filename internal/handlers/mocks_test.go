package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/models"
	"folio/internal/oracle"
	"folio/internal/pagination"
	"folio/internal/services"
	"folio/internal/valuation"
)

// --- platforms ---

type mockPlatformService struct {
	createPlatformFn  func(name string) (*models.Platform, error)
	getPlatformByIDFn func(id string) (*models.Platform, error)
	listPlatformsFn   func(page pagination.PageRequest) (*pagination.PageResponse[models.Platform], error)
	renamePlatformFn  func(id, name string) (*models.Platform, error)
	deletePlatformFn  func(id string) error
}

var _ services.PlatformServicer = (*mockPlatformService)(nil)

func (m *mockPlatformService) CreatePlatform(name string) (*models.Platform, error) {
	if m.createPlatformFn != nil {
		return m.createPlatformFn(name)
	}
	return &models.Platform{Name: name}, nil
}

func (m *mockPlatformService) GetPlatformByID(id string) (*models.Platform, error) {
	if m.getPlatformByIDFn != nil {
		return m.getPlatformByIDFn(id)
	}
	return &models.Platform{}, nil
}

func (m *mockPlatformService) ListPlatforms(page pagination.PageRequest) (*pagination.PageResponse[models.Platform], error) {
	if m.listPlatformsFn != nil {
		return m.listPlatformsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Platform{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPlatformService) RenamePlatform(id, name string) (*models.Platform, error) {
	if m.renamePlatformFn != nil {
		return m.renamePlatformFn(id, name)
	}
	return &models.Platform{Name: name}, nil
}

func (m *mockPlatformService) DeletePlatform(id string) error {
	if m.deletePlatformFn != nil {
		return m.deletePlatformFn(id)
	}
	return nil
}

// --- assets ---

type mockAssetService struct {
	createAssetFn  func(in services.AssetInput) (*models.Asset, error)
	getAssetByIDFn func(id string) (*models.Asset, error)
	listAssetsFn   func(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	updateAssetFn  func(id string, in services.AssetInput) (*models.Asset, error)
	deleteAssetFn  func(id string) error
}

var _ services.AssetServicer = (*mockAssetService)(nil)

func (m *mockAssetService) CreateAsset(in services.AssetInput) (*models.Asset, error) {
	if m.createAssetFn != nil {
		return m.createAssetFn(in)
	}
	return &models.Asset{Type: in.Type, Symbol: in.Symbol, Currency: in.Currency}, nil
}

func (m *mockAssetService) GetAssetByID(id string) (*models.Asset, error) {
	if m.getAssetByIDFn != nil {
		return m.getAssetByIDFn(id)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) ListAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	if m.listAssetsFn != nil {
		return m.listAssetsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Asset{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAssetService) AllAssets() ([]models.Asset, error) {
	return nil, nil
}

func (m *mockAssetService) UpdateAsset(id string, in services.AssetInput) (*models.Asset, error) {
	if m.updateAssetFn != nil {
		return m.updateAssetFn(id, in)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) DeleteAsset(id string) error {
	if m.deleteAssetFn != nil {
		return m.deleteAssetFn(id)
	}
	return nil
}

// --- transactions ---

type mockTransactionService struct {
	createTransactionFn  func(in services.TransactionInput) (*models.Transaction, error)
	getTransactionByIDFn func(id string) (*models.Transaction, error)
	listTransactionsFn   func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	deleteTransactionFn  func(id string) error
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func (m *mockTransactionService) CreateTransaction(in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(id)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) ListTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) DeleteTransaction(id string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(id)
	}
	return nil
}

// --- prices ---

type mockPriceService struct {
	recordPricesFn    func(prices []services.PriceInput) (int, error)
	listAssetPricesFn func(assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.PriceSnapshot], error)
	deletePriceFn     func(id string) error
}

var _ services.PriceServicer = (*mockPriceService)(nil)

func (m *mockPriceService) RecordPrices(prices []services.PriceInput) (int, error) {
	if m.recordPricesFn != nil {
		return m.recordPricesFn(prices)
	}
	return len(prices), nil
}

func (m *mockPriceService) ListAssetPrices(assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.PriceSnapshot], error) {
	if m.listAssetPricesFn != nil {
		return m.listAssetPricesFn(assetID, page)
	}
	resp := pagination.NewPageResponse([]models.PriceSnapshot{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPriceService) DeletePrice(id string) error {
	if m.deletePriceFn != nil {
		return m.deletePriceFn(id)
	}
	return nil
}

// --- fx ---

type mockFxService struct {
	recordRateFn func(currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error)
	listRatesFn  func(pair string, page pagination.PageRequest) (*pagination.PageResponse[models.FxSnapshot], error)
	latestRateFn func(pair string) (*models.FxSnapshot, error)
	deleteRateFn func(id string) error
}

var _ services.FxServicer = (*mockFxService)(nil)

func (m *mockFxService) RecordRate(currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error) {
	if m.recordRateFn != nil {
		return m.recordRateFn(currency, rate, date)
	}
	return &models.FxSnapshot{}, nil
}

func (m *mockFxService) ListRates(pair string, page pagination.PageRequest) (*pagination.PageResponse[models.FxSnapshot], error) {
	if m.listRatesFn != nil {
		return m.listRatesFn(pair, page)
	}
	resp := pagination.NewPageResponse([]models.FxSnapshot{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockFxService) LatestRate(pair string) (*models.FxSnapshot, error) {
	if m.latestRateFn != nil {
		return m.latestRateFn(pair)
	}
	return &models.FxSnapshot{}, nil
}

func (m *mockFxService) DeleteRate(id string) error {
	if m.deleteRateFn != nil {
		return m.deleteRateFn(id)
	}
	return nil
}

// --- imports ---

type mockImportService struct {
	previewFn func(text string, opts services.ImportOptions) (*services.ImportPreview, error)
	commitFn  func(ctx context.Context, text string, opts services.ImportOptions, remember bool) (*services.ImportResult, error)
}

var _ services.ImportServicer = (*mockImportService)(nil)

func (m *mockImportService) Preview(text string, opts services.ImportOptions) (*services.ImportPreview, error) {
	if m.previewFn != nil {
		return m.previewFn(text, opts)
	}
	return &services.ImportPreview{}, nil
}

func (m *mockImportService) Commit(ctx context.Context, text string, opts services.ImportOptions, remember bool) (*services.ImportResult, error) {
	if m.commitFn != nil {
		return m.commitFn(ctx, text, opts, remember)
	}
	return &services.ImportResult{}, nil
}

// --- portfolio ---

type mockPortfolioService struct {
	getSummaryFn func() (*valuation.Summary, error)
	getHistoryFn func() ([]valuation.HistoryPoint, error)
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) GetSummary() (*valuation.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn()
	}
	return &valuation.Summary{}, nil
}

func (m *mockPortfolioService) GetHistory() ([]valuation.HistoryPoint, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn()
	}
	return []valuation.HistoryPoint{}, nil
}

// --- admin ---

type mockAdminService struct {
	resetDatabaseFn  func() error
	seedSampleDataFn func() (*services.SeedResult, error)
}

var _ services.AdminServicer = (*mockAdminService)(nil)

func (m *mockAdminService) ResetDatabase() error {
	if m.resetDatabaseFn != nil {
		return m.resetDatabaseFn()
	}
	return nil
}

func (m *mockAdminService) SeedSampleData() (*services.SeedResult, error) {
	if m.seedSampleDataFn != nil {
		return m.seedSampleDataFn()
	}
	return &services.SeedResult{}, nil
}

// --- market data ---

type mockRefresher struct {
	runFn func(ctx context.Context) (*oracle.RunResult, error)
}

var _ MarketDataRefresher = (*mockRefresher)(nil)

func (m *mockRefresher) Run(ctx context.Context) (*oracle.RunResult, error) {
	if m.runFn != nil {
		return m.runFn(ctx)
	}
	return &oracle.RunResult{}, nil
}
