package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"folio/internal/csvimport"
	apperrors "folio/internal/errors"
	"folio/internal/logger"
	"folio/internal/models"
	"folio/internal/provider"
)

// importService runs the CSV import workflow: preview, then an atomic commit.
type importService struct {
	db        *gorm.DB
	templates MappingTemplateServicer
	rates     provider.RateProvider
	now       func() time.Time
}

// NewImportService creates a new ImportServicer. rates may be nil, in which
// case no FX rates are fetched after a commit.
func NewImportService(db *gorm.DB, templates MappingTemplateServicer, rates provider.RateProvider) ImportServicer {
	return &importService{
		db:        db,
		templates: templates,
		rates:     rates,
		now:       time.Now,
	}
}

// Preview parses text without persisting anything. A template remembered for
// the same header signature is applied under the caller's mapping.
func (s *importService) Preview(text string, opts ImportOptions) (*ImportPreview, error) {
	suggestion := csvimport.SuggestMapping(text)
	defaultPlatform := strings.TrimSpace(opts.DefaultPlatform)

	override := csvimport.Mapping{}
	applied := false
	if suggestion.Signature != "" {
		tpl, found, err := s.templates.Get(suggestion.Signature)
		if err != nil {
			return nil, err
		}
		if found {
			stored := csvimport.Sanitize(templateMapping(tpl), suggestion.Headers)
			applied = len(stored) > 0 || tpl.Broker != ""
			override = stored
			if defaultPlatform == "" {
				defaultPlatform = tpl.Broker
			}
		}
	}
	for field, header := range opts.Mapping {
		override[field] = header
	}

	effective := suggestion.Merge(override)
	result := csvimport.Parse(text, csvimport.Options{
		DefaultCurrency: opts.DefaultCurrency,
		DefaultPlatform: defaultPlatform,
		ColumnMapping:   effective,
	})
	needsReview := csvimport.NeedsReview(effective, suggestion.Mapping, suggestion.Confidence)
	state, message := csvimport.Classify(result, needsReview)

	preview := &ImportPreview{
		Signature:        suggestion.Signature,
		Headers:          suggestion.Headers,
		SuggestedMapping: suggestion.Mapping,
		Mapping:          effective,
		Confidence:       csvimport.MappingConfidence(effective, suggestion.Mapping, suggestion.Confidence),
		NeedsReview:      needsReview,
		DefaultPlatform:  defaultPlatform,
		Records:          result.Records,
		Errors:           result.Errors,
		State:            state,
		Message:          message,
		TemplateApplied:  applied,
	}
	if preview.Headers == nil {
		preview.Headers = []string{}
	}
	if preview.Records == nil {
		preview.Records = []csvimport.Row{}
	}
	if preview.Errors == nil {
		preview.Errors = []csvimport.RowError{}
	}
	return preview, nil
}

// committable reports whether a preview may be persisted. A mapping still
// under review is accepted once every row parsed cleanly: committing is the
// caller confirming it.
func committable(p *ImportPreview) bool {
	switch p.State {
	case csvimport.StateReady:
		return true
	case csvimport.StateMapping:
		return len(p.Errors) == 0 && len(p.Records) > 0
	}
	return false
}

// Commit re-parses text and persists every record in a single transaction.
// The mapping is remembered only once the batch has committed.
func (s *importService) Commit(ctx context.Context, text string, opts ImportOptions, remember bool) (*ImportResult, error) {
	machine := csvimport.NewMachine()
	if err := machine.Transition(csvimport.StateParsing); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidStateTransition, err)
	}

	preview, err := s.Preview(text, opts)
	if err != nil {
		return nil, err
	}
	if len(preview.Records) == 0 && len(preview.Errors) == 0 {
		return nil, apperrors.ErrImportEmpty
	}
	if !committable(preview) {
		return nil, apperrors.WithMessage(apperrors.ErrImportNotReady, preview.Message)
	}
	if preview.State == csvimport.StateMapping {
		// The caller confirmed the mapping by committing.
		if err := machine.Transition(csvimport.StateMapping); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidStateTransition, err)
		}
	}
	for _, next := range []csvimport.State{csvimport.StateReady, csvimport.StateImporting} {
		if err := machine.Transition(next); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidStateTransition, err)
		}
	}

	result, err := persistRows(s.db, preview.Records)
	if err != nil {
		_ = machine.Transition(csvimport.StateError)
		return nil, err
	}
	_ = machine.Transition(csvimport.StateDone)

	// The batch is committed; a template that fails to save is only logged.
	if remember && preview.Signature != "" {
		if err := s.templates.Put(preview.Signature, csvimport.Sanitize(preview.Mapping, preview.Headers), preview.DefaultPlatform); err != nil {
			logger.Get().Warnw("Failed to remember column mapping", "signature", preview.Signature, "error", err)
		}
	}

	logger.Get().Infow("CSV import committed",
		"signature", preview.Signature,
		"transactions", result.TransactionsCreated,
		"platforms", result.PlatformsCreated,
		"assets", result.AssetsCreated,
		"prices", result.PricesCreated,
	)

	result.FxMessages = s.ensureFxRates(ctx, preview.Records)
	return result, nil
}

// persistRows writes platforms, assets, transactions and price snapshots for
// rows in one database transaction. Nothing is written if any step fails.
func persistRows(db *gorm.DB, rows []csvimport.Row) (*ImportResult, error) {
	result := &ImportResult{FxMessages: []string{}}

	err := db.Transaction(func(tx *gorm.DB) error {
		platforms := map[string]string{} // platform key -> id
		assets := map[string]string{}    // symbol key -> id
		type priceKey struct {
			asset string
			date  int64
		}
		priced := map[priceKey]bool{}

		for _, row := range rows {
			platformID, created, err := ensurePlatform(tx, platforms, row.Platform)
			if err != nil {
				return err
			}
			if created {
				result.PlatformsCreated++
			}

			txn := models.Transaction{
				PlatformID: platformID,
				Kind:       row.Kind,
				Date:       row.Date.UTC(),
				Fee:        row.Fee,
				Currency:   row.CashCurrency,
				Note:       row.Note,
			}
			if txn.Currency == "" {
				txn.Currency = row.Currency
			}

			if row.Kind.RequiresAsset() {
				assetID, created, err := ensureAsset(tx, assets, row)
				if err != nil {
					return err
				}
				if created {
					result.AssetsCreated++
				}
				txn.AssetID = &assetID
				txn.Qty = row.Qty
				txn.Price = row.Price

				key := priceKey{assetID, row.Date.UTC().UnixNano()}
				if row.Price.Valid && !row.Price.Decimal.IsZero() && !priced[key] {
					priced[key] = true
					created, err := recordPrice(tx, assetID, row.Date, row.Price.Decimal, row.Currency)
					if err != nil {
						return err
					}
					if created {
						result.PricesCreated++
					}
				}
			} else {
				txn.Amount = cashAmount(row)
			}

			if err := tx.Create(&txn).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.TransactionsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cashAmount picks the amount of a cash movement: the price column when
// given, else the quantity column.
func cashAmount(row csvimport.Row) decimal.NullDecimal {
	if row.Price.Valid {
		return row.Price
	}
	return row.Qty
}

// ensurePlatform returns the platform named name, creating it when no
// platform matches its case-insensitive trimmed name.
func ensurePlatform(tx *gorm.DB, seen map[string]string, name string) (string, bool, error) {
	key := models.PlatformKey(name)
	if id, ok := seen[key]; ok {
		return id, false, nil
	}

	existing, found, err := findPlatformByName(tx, name)
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if found {
		seen[key] = existing.ID
		return existing.ID, false, nil
	}

	platform := models.Platform{Name: strings.TrimSpace(name)}
	if err := tx.Create(&platform).Error; err != nil {
		return "", false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	seen[key] = platform.ID
	return platform.ID, true, nil
}

// ensureAsset returns the asset with the row's symbol, creating it from the
// row when it does not exist yet.
func ensureAsset(tx *gorm.DB, seen map[string]string, row csvimport.Row) (string, bool, error) {
	key := models.SymbolKey(row.AssetSymbol)
	if id, ok := seen[key]; ok {
		return id, false, nil
	}

	var existing []models.Asset
	if err := tx.Where("UPPER(symbol) = ?", key).Limit(1).Find(&existing).Error; err != nil {
		return "", false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(existing) > 0 {
		seen[key] = existing[0].ID
		return existing[0].ID, false, nil
	}

	assetType := row.AssetType
	if assetType == "" {
		assetType = models.AssetTypeETF
	}
	name := strings.TrimSpace(row.AssetName)
	if name == "" {
		name = key
	}
	asset := models.Asset{
		Type:     assetType,
		Symbol:   key,
		Name:     name,
		Currency: row.Currency,
	}
	if err := tx.Create(&asset).Error; err != nil {
		return "", false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	seen[key] = asset.ID
	return asset.ID, true, nil
}

// ensureFxRates fetches and records a fresh rate for every non-EUR currency
// of rows. Failures become messages; they never undo the import.
func (s *importService) ensureFxRates(ctx context.Context, rows []csvimport.Row) []string {
	messages := []string{}
	if s.rates == nil {
		return messages
	}

	currencies := make([]string, 0, len(rows))
	for _, row := range rows {
		currencies = append(currencies, row.Currency)
	}
	currencies = provider.UniqueCurrencies(currencies)
	if len(currencies) == 0 {
		return messages
	}

	fetched := s.rates.FetchRates(ctx, currencies)
	now := s.now()
	for _, currency := range currencies {
		pair := models.FxPair(currency)
		rate, ok := fetched.Rates[currency]
		if !ok {
			messages = append(messages, fmt.Sprintf("FX not found for %s. Add it manually.", pair))
			continue
		}
		if _, err := recordRate(s.db, currency, rate, now); err != nil {
			logger.Get().Errorw("Failed to record FX rate", "pair", pair, "error", err)
			messages = append(messages, fmt.Sprintf("FX %s could not be saved.", pair))
			continue
		}
		messages = append(messages, fmt.Sprintf("FX %s updated (%s).", pair, rate.StringFixed(4)))
	}
	for _, e := range fetched.Errors {
		logger.Get().Warnw("FX lookup failed", "currency", e.Currency, "message", e.Message)
	}
	return messages
}
