package models

import "time"

// MappingTemplate remembers the last confirmed column mapping for a CSV
// header signature, plus the broker the user picked as default platform.
type MappingTemplate struct {
	Signature string            `gorm:"primaryKey" json:"signature"`
	Mapping   map[string]string `gorm:"serializer:json;not null" json:"mapping"`
	Broker    string            `json:"broker,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
