package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the type of a ledger line.
type TransactionKind string

const (
	TransactionKindBuy      TransactionKind = "BUY"
	TransactionKindSell     TransactionKind = "SELL"
	TransactionKindDeposit  TransactionKind = "DEPOSIT"
	TransactionKindWithdraw TransactionKind = "WITHDRAW"
	TransactionKindFee      TransactionKind = "FEE"
)

// TransactionKinds lists every accepted kind in display order.
var TransactionKinds = []TransactionKind{
	TransactionKindBuy,
	TransactionKindSell,
	TransactionKindDeposit,
	TransactionKindWithdraw,
	TransactionKindFee,
}

// Valid reports whether k is one of the closed set of kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindBuy, TransactionKindSell, TransactionKindDeposit, TransactionKindWithdraw, TransactionKindFee:
		return true
	}
	return false
}

// RequiresAsset reports whether lines of this kind move an asset position.
func (k TransactionKind) RequiresAsset() bool {
	return k == TransactionKindBuy || k == TransactionKindSell
}

// Transaction is a single ledger line. AssetID, Qty and Price are set
// exactly when Kind is BUY or SELL; cash lines carry Amount instead.
// Currency is the settlement currency.
type Transaction struct {
	Base
	PlatformID string              `gorm:"type:uuid;not null;index" json:"platform_id"`
	AssetID    *string             `gorm:"type:uuid;index" json:"asset_id,omitempty"`
	Kind       TransactionKind     `gorm:"not null" json:"kind"`
	Date       time.Time           `gorm:"not null;index" json:"date"`
	Qty        decimal.NullDecimal `gorm:"type:numeric" json:"qty"`
	Price      decimal.NullDecimal `gorm:"type:numeric" json:"price"`
	Fee        decimal.NullDecimal `gorm:"type:numeric" json:"fee"`
	Amount     decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	Currency   string              `gorm:"size:3;not null" json:"currency"`
	Note       string              `json:"note,omitempty"`
}

// SignedQty returns the position delta of the line: +qty for BUY, -qty for
// SELL and zero for cash movements.
func (t *Transaction) SignedQty() decimal.Decimal {
	if !t.Qty.Valid {
		return decimal.Zero
	}
	switch t.Kind {
	case TransactionKindBuy:
		return t.Qty.Decimal
	case TransactionKindSell:
		return t.Qty.Decimal.Neg()
	}
	return decimal.Zero
}
