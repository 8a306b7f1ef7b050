package services

import (
	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/valuation"
)

// portfolioService values the whole ledger.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// loadValuationInput reads every entity the valuation needs. Rows are read
// in creation order so ties on equal dates resolve to the earliest row.
func loadValuationInput(db *gorm.DB) (valuation.Input, error) {
	var in valuation.Input
	steps := []struct {
		dest  interface{}
		order string
	}{
		{&in.Assets, "symbol ASC"},
		{&in.Platforms, "name ASC"},
		{&in.Transactions, "date ASC, created_at ASC, id ASC"},
		{&in.Prices, "created_at ASC, id ASC"},
		{&in.Fx, "created_at ASC, id ASC"},
	}
	for _, step := range steps {
		if err := db.Order(step.order).Find(step.dest).Error; err != nil {
			return in, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return in, nil
}

// GetSummary values every position and builds the aggregates and history.
func (s *portfolioService) GetSummary() (*valuation.Summary, error) {
	in, err := loadValuationInput(s.db)
	if err != nil {
		return nil, err
	}
	summary := valuation.ComputeSummary(in)
	return &summary, nil
}

// GetHistory reconstructs the portfolio value at every known date.
func (s *portfolioService) GetHistory() ([]valuation.HistoryPoint, error) {
	in, err := loadValuationInput(s.db)
	if err != nil {
		return nil, err
	}
	return valuation.History(in), nil
}
