package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

// assetService handles instrument records.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// validateAsset normalizes in and rejects unusable values.
func validateAsset(in AssetInput) (AssetInput, error) {
	in.Symbol = models.SymbolKey(in.Symbol)
	if in.Symbol == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if !in.Type.Valid() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be one of ETF, STOCK, CRYPTO")
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return in, err
	}
	in.Currency = currency
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = in.Symbol
	}
	return in, nil
}

// CreateAsset creates a new asset. Symbols are stored upper-cased.
func (s *assetService) CreateAsset(in AssetInput) (*models.Asset, error) {
	in, err := validateAsset(in)
	if err != nil {
		return nil, err
	}

	asset := &models.Asset{
		Type:     in.Type,
		Symbol:   in.Symbol,
		Name:     in.Name,
		Currency: in.Currency,
	}
	if err := s.db.Create(asset).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAsset
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// GetAssetByID returns an asset by its ID.
func (s *assetService) GetAssetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", id).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAssetNotFound)
	}
	return &asset, nil
}

// ListAssets returns a paginated list of assets ordered by symbol.
func (s *assetService) ListAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Asset{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// AllAssets returns every asset ordered by symbol.
func (s *assetService) AllAssets() ([]models.Asset, error) {
	assets := []models.Asset{}
	if err := s.db.Order("symbol ASC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assets, nil
}

// UpdateAsset replaces the writable fields of an asset.
func (s *assetService) UpdateAsset(id string, in AssetInput) (*models.Asset, error) {
	in, err := validateAsset(in)
	if err != nil {
		return nil, err
	}

	asset, err := s.GetAssetByID(id)
	if err != nil {
		return nil, err
	}
	asset.Type = in.Type
	asset.Symbol = in.Symbol
	asset.Name = in.Name
	asset.Currency = in.Currency

	if err := s.db.Save(asset).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAsset
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// DeleteAsset removes an asset and its price history. Assets referenced by
// transactions cannot be deleted.
func (s *assetService) DeleteAsset(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, "id = ?", id).Error; err != nil {
			return lookupError(err, apperrors.ErrAssetNotFound)
		}

		var refs int64
		if err := tx.Model(&models.Transaction{}).Where("asset_id = ?", id).Count(&refs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if refs > 0 {
			return apperrors.ErrAssetInUse
		}

		if err := tx.Where("asset_id = ?", id).Delete(&models.PriceSnapshot{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&asset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
