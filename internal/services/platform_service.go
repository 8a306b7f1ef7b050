package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

// platformService handles broker/account records.
type platformService struct {
	db *gorm.DB
}

// NewPlatformService creates a new PlatformServicer.
func NewPlatformService(db *gorm.DB) PlatformServicer {
	return &platformService{db: db}
}

// findPlatformByName looks a platform up by case-insensitive trimmed name.
func findPlatformByName(db *gorm.DB, name string) (*models.Platform, bool, error) {
	var platforms []models.Platform
	if err := db.Where("LOWER(TRIM(name)) = ?", models.PlatformKey(name)).Limit(1).Find(&platforms).Error; err != nil {
		return nil, false, err
	}
	if len(platforms) == 0 {
		return nil, false, nil
	}
	return &platforms[0], true, nil
}

// CreatePlatform creates a platform. Names are unique ignoring case.
func (s *platformService) CreatePlatform(name string) (*models.Platform, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	_, exists, err := findPlatformByName(s.db, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if exists {
		return nil, apperrors.ErrDuplicatePlatform
	}

	platform := &models.Platform{Name: name}
	if err := s.db.Create(platform).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicatePlatform
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return platform, nil
}

// GetPlatformByID returns a platform by its ID.
func (s *platformService) GetPlatformByID(id string) (*models.Platform, error) {
	var platform models.Platform
	if err := s.db.First(&platform, "id = ?", id).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrPlatformNotFound)
	}
	return &platform, nil
}

// ListPlatforms returns a paginated list of platforms ordered by name.
func (s *platformService) ListPlatforms(page pagination.PageRequest) (*pagination.PageResponse[models.Platform], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Platform{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var platforms []models.Platform
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&platforms).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(platforms, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RenamePlatform changes the display name of a platform.
func (s *platformService) RenamePlatform(id, name string) (*models.Platform, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	platform, err := s.GetPlatformByID(id)
	if err != nil {
		return nil, err
	}

	other, exists, err := findPlatformByName(s.db, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if exists && other.ID != platform.ID {
		return nil, apperrors.ErrDuplicatePlatform
	}

	platform.Name = name
	if err := s.db.Save(platform).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicatePlatform
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return platform, nil
}

// DeletePlatform removes a platform that no transaction references.
func (s *platformService) DeletePlatform(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var platform models.Platform
		if err := tx.First(&platform, "id = ?", id).Error; err != nil {
			return lookupError(err, apperrors.ErrPlatformNotFound)
		}

		var refs int64
		if err := tx.Model(&models.Transaction{}).Where("platform_id = ?", id).Count(&refs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if refs > 0 {
			return apperrors.ErrPlatformInUse
		}

		if err := tx.Delete(&platform).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
