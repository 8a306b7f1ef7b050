package services

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"folio/internal/csvimport"
	apperrors "folio/internal/errors"
	"folio/internal/models"
)

// mappingTemplateService persists confirmed mappings and keeps recently used
// ones in process memory.
type mappingTemplateService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewMappingTemplateService creates a new MappingTemplateServicer whose
// cache entries expire after ttl.
func NewMappingTemplateService(db *gorm.DB, ttl time.Duration) MappingTemplateServicer {
	return &mappingTemplateService{
		db:    db,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Get returns the template remembered for signature, if any.
func (s *mappingTemplateService) Get(signature string) (*models.MappingTemplate, bool, error) {
	if signature == "" {
		return nil, false, nil
	}
	if cached, ok := s.cache.Get(signature); ok {
		tpl := cached.(models.MappingTemplate)
		return &tpl, true, nil
	}

	var templates []models.MappingTemplate
	if err := s.db.Where("signature = ?", signature).Limit(1).Find(&templates).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(templates) == 0 {
		return nil, false, nil
	}

	s.cache.SetDefault(signature, templates[0])
	return &templates[0], true, nil
}

// Put remembers mapping (and the chosen default broker) for signature,
// replacing any previous template.
func (s *mappingTemplateService) Put(signature string, mapping csvimport.Mapping, broker string) error {
	if signature == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Signature is required")
	}

	stored := make(map[string]string, len(mapping))
	for field, header := range mapping {
		if field.Valid() && header != "" {
			stored[string(field)] = header
		}
	}
	tpl := models.MappingTemplate{
		Signature: signature,
		Mapping:   stored,
		Broker:    strings.TrimSpace(broker),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "signature"}},
		DoUpdates: clause.AssignmentColumns([]string{"mapping", "broker", "updated_at"}),
	}).Create(&tpl).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.SetDefault(signature, tpl)
	return nil
}

// templateMapping converts a stored template back to a column mapping.
func templateMapping(tpl *models.MappingTemplate) csvimport.Mapping {
	mapping := make(csvimport.Mapping, len(tpl.Mapping))
	for field, header := range tpl.Mapping {
		if f := csvimport.Field(field); f.Valid() {
			mapping[f] = header
		}
	}
	return mapping
}
