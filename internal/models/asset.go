package models

import "strings"

// AssetType represents the class of an instrument.
type AssetType string

const (
	AssetTypeETF    AssetType = "ETF"
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeCrypto AssetType = "CRYPTO"
)

// AssetTypes lists every accepted asset type in display order.
var AssetTypes = []AssetType{AssetTypeETF, AssetTypeStock, AssetTypeCrypto}

// Valid reports whether t is one of the closed set of asset types.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeETF, AssetTypeStock, AssetTypeCrypto:
		return true
	}
	return false
}

// Asset is an instrument priced in a single currency.
type Asset struct {
	Base
	Type     AssetType `gorm:"not null" json:"type"`
	Symbol   string    `gorm:"not null;uniqueIndex:uq_assets_symbol" json:"symbol"`
	Name     string    `gorm:"not null" json:"name"`
	Currency string    `gorm:"size:3;not null" json:"currency"`
}

// SymbolKey returns the lookup key used to dedupe assets by symbol.
func SymbolKey(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
