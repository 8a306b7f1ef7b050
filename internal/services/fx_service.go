package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

var fxPairPattern = regexp.MustCompile(`^[A-Z]{3}/EUR$`)

// fxService handles FX snapshots.
type fxService struct {
	db *gorm.DB
}

// NewFxService creates a new FxServicer.
func NewFxService(db *gorm.DB) FxServicer {
	return &fxService{db: db}
}

// normalizePair upper-cases a "CCY/EUR" pair and checks its shape.
func normalizePair(pair string) (string, error) {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	if !fxPairPattern.MatchString(pair) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Pair must look like USD/EUR")
	}
	return pair, nil
}

// RecordRate stores the EUR value of one unit of currency observed at date.
func (s *fxService) RecordRate(currency string, rate decimal.Decimal, date time.Time) (*models.FxSnapshot, error) {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if code == models.ReportingCurrency {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "EUR is the reporting currency and needs no rate")
	}
	if !rate.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Rate must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return recordRate(s.db, code, rate, date)
}

// ListRates returns FX snapshots newest first, optionally for one pair.
func (s *fxService) ListRates(pair string, page pagination.PageRequest) (*pagination.PageResponse[models.FxSnapshot], error) {
	page.Defaults()

	base := s.db.Model(&models.FxSnapshot{})
	if strings.TrimSpace(pair) != "" {
		normalized, err := normalizePair(pair)
		if err != nil {
			return nil, err
		}
		base = base.Where("pair = ?", normalized)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rates []models.FxSnapshot
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&rates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rates, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// LatestRate returns the most recent snapshot of a pair.
func (s *fxService) LatestRate(pair string) (*models.FxSnapshot, error) {
	normalized, err := normalizePair(pair)
	if err != nil {
		return nil, err
	}
	var snapshot models.FxSnapshot
	if err := s.db.Where("pair = ?", normalized).Order("date DESC").First(&snapshot).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrFxSnapshotNotFound)
	}
	return &snapshot, nil
}

// DeleteRate removes an FX snapshot.
func (s *fxService) DeleteRate(id string) error {
	result := s.db.Delete(&models.FxSnapshot{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFxSnapshotNotFound
	}
	return nil
}
