package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "folio/internal/errors"
	"folio/internal/logger"
	"folio/internal/models"
	"folio/internal/uuid"
)

// adminService handles maintenance operations on the whole ledger.
type adminService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB) AdminServicer {
	return &adminService{db: db, now: time.Now}
}

// ResetDatabase clears every ledger table in one transaction. Mapping
// templates are kept.
func (s *adminService) ResetDatabase() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Transaction{},
			&models.PriceSnapshot{},
			&models.FxSnapshot{},
			&models.Asset{},
			&models.Platform{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Get().Infow("Database reset")
	return nil
}

type seedTrade struct {
	key      string
	platform string
	symbol   string
	date     time.Time
	qty      string
	price    string
	currency string
}

var (
	seedPlatforms = []string{"DEGIRO", "Interactive Brokers"}

	seedAssets = []models.Asset{
		{Type: models.AssetTypeETF, Symbol: "VWRL", Name: "Vanguard FTSE All-World UCITS ETF", Currency: "EUR"},
		{Type: models.AssetTypeStock, Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"},
		{Type: models.AssetTypeCrypto, Symbol: "BTC", Name: "Bitcoin", Currency: "USD"},
	}

	seedTrades = []seedTrade{
		{"tx_1", "DEGIRO", "VWRL", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "100", "90.5", "EUR"},
		{"tx_2", "DEGIRO", "AAPL", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "10", "150", "USD"},
		{"tx_3", "Interactive Brokers", "BTC", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "0.5", "45000", "USD"},
	}

	seedPrices = map[string]string{"VWRL": "95.75", "AAPL": "175.5", "BTC": "52000"}

	seedFx = map[string]string{"USD": "0.92"}
)

// SeedSampleData inserts a small deterministic portfolio. Seeding twice
// refreshes the same rows instead of adding new ones.
func (s *adminService) SeedSampleData() (*SeedResult, error) {
	now := s.now().UTC()
	result := &SeedResult{}
	upsert := clause.OnConflict{UpdateAll: true}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		platformIDs := map[string]string{}
		for _, name := range seedPlatforms {
			id, _, err := ensurePlatform(tx, map[string]string{}, name)
			if err != nil {
				return err
			}
			platformIDs[name] = id
			result.Platforms++
		}

		assetIDs := map[string]string{}
		for _, a := range seedAssets {
			var existing []models.Asset
			if err := tx.Where("UPPER(symbol) = ?", a.Symbol).Limit(1).Find(&existing).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if len(existing) > 0 {
				assetIDs[a.Symbol] = existing[0].ID
			} else {
				asset := a
				if err := tx.Create(&asset).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				assetIDs[a.Symbol] = asset.ID
			}
			result.Assets++
		}

		for _, st := range seedTrades {
			assetID := assetIDs[st.symbol]
			txn := models.Transaction{
				Base:       models.Base{ID: uuid.Named("seed/" + st.key)},
				PlatformID: platformIDs[st.platform],
				AssetID:    &assetID,
				Kind:       models.TransactionKindBuy,
				Date:       st.date,
				Qty:        decimal.NewNullDecimal(decimal.RequireFromString(st.qty)),
				Price:      decimal.NewNullDecimal(decimal.RequireFromString(st.price)),
				Currency:   st.currency,
			}
			if err := tx.Clauses(upsert).Create(&txn).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Transactions++
		}

		for _, a := range seedAssets {
			snapshot := models.PriceSnapshot{
				ID:       uuid.Named("seed/price/" + a.Symbol),
				AssetID:  assetIDs[a.Symbol],
				Date:     now,
				Price:    decimal.RequireFromString(seedPrices[a.Symbol]),
				Currency: a.Currency,
			}
			if err := tx.Clauses(upsert).Create(&snapshot).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Prices++
		}

		for currency, rate := range seedFx {
			snapshot := models.FxSnapshot{
				ID:   uuid.Named("seed/fx/" + currency),
				Pair: models.FxPair(currency),
				Date: now,
				Rate: decimal.RequireFromString(rate),
			}
			if err := tx.Clauses(upsert).Create(&snapshot).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.FxRates++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Sample data seeded", "transactions", result.Transactions, "prices", result.Prices)
	return result, nil
}
