package csvimport

import (
	"regexp"
	"strings"

	"folio/internal/models"
)

var kindAliases = map[string]models.TransactionKind{
	"buy":         models.TransactionKindBuy,
	"bought":      models.TransactionKindBuy,
	"purchase":    models.TransactionKindBuy,
	"achat":       models.TransactionKindBuy,
	"acquisition": models.TransactionKindBuy,

	"sell":  models.TransactionKindSell,
	"sold":  models.TransactionKindSell,
	"sale":  models.TransactionKindSell,
	"vente": models.TransactionKindSell,

	"deposit":   models.TransactionKindDeposit,
	"versement": models.TransactionKindDeposit,
	"depot":     models.TransactionKindDeposit,
	"dépôt":     models.TransactionKindDeposit,
	"cash_in":   models.TransactionKindDeposit,
	"top_up":    models.TransactionKindDeposit,

	"withdraw":   models.TransactionKindWithdraw,
	"withdrawal": models.TransactionKindWithdraw,
	"retrait":    models.TransactionKindWithdraw,
	"cash_out":   models.TransactionKindWithdraw,

	"fee":        models.TransactionKindFee,
	"fees":       models.TransactionKindFee,
	"frais":      models.TransactionKindFee,
	"commission": models.TransactionKindFee,
}

var assetTypeAliases = map[string]models.AssetType{
	"stock":  models.AssetTypeStock,
	"equity": models.AssetTypeStock,
	"action": models.AssetTypeStock,
	"share":  models.AssetTypeStock,
	"shares": models.AssetTypeStock,

	"etf":     models.AssetTypeETF,
	"fund":    models.AssetTypeETF,
	"tracker": models.AssetTypeETF,

	"crypto":         models.AssetTypeCrypto,
	"cryptocurrency": models.AssetTypeCrypto,
	"coin":           models.AssetTypeCrypto,
	"token":          models.AssetTypeCrypto,
}

func vocabularyKey(raw string) string {
	return headerSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "_")
}

// ParseKind maps a canonical kind or a known broker synonym to a kind.
func ParseKind(raw string) (models.TransactionKind, bool) {
	if kind := models.TransactionKind(strings.ToUpper(strings.TrimSpace(raw))); kind.Valid() {
		return kind, true
	}
	kind, ok := kindAliases[vocabularyKey(raw)]
	return kind, ok
}

// ParseAssetType maps a canonical asset type or a synonym to an asset type.
func ParseAssetType(raw string) (models.AssetType, bool) {
	if t := models.AssetType(strings.ToUpper(strings.TrimSpace(raw))); t.Valid() {
		return t, true
	}
	t, ok := assetTypeAliases[vocabularyKey(raw)]
	return t, ok
}

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeCurrency upper-cases a 3-letter currency code. Anything else is
// rejected.
func NormalizeCurrency(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !currencyCode.MatchString(code) {
		return "", false
	}
	return code, true
}

type symbolSuffix struct {
	suffix   string
	currency string
}

// symbolSuffixes is matched in order against the upper-cased symbol.
var symbolSuffixes = []symbolSuffix{
	{".LN", "GBP"},
	{".L", "GBP"},
	{".PA", "EUR"},
	{".AS", "EUR"},
	{".DE", "EUR"},
	{".HE", "EUR"},
	{".MI", "EUR"},
	{".MC", "EUR"},
	{".BR", "EUR"},
	{".F", "EUR"},
	{".SW", "CHF"},
	{".TO", "CAD"},
	{".V", "CAD"},
	{".AX", "AUD"},
	{".HK", "HKD"},
	{".SI", "SGD"},
	{".T", "JPY"},
	{"-USD", "USD"},
	{"-EUR", "EUR"},
	{"-GBP", "GBP"},
	{"-CAD", "CAD"},
	{"-CHF", "CHF"},
}

// InferCurrencyFromSymbol guesses the pricing currency from exchange or
// crypto pair suffixes.
func InferCurrencyFromSymbol(symbol string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, entry := range symbolSuffixes {
		if strings.HasSuffix(s, entry.suffix) && len(s) > len(entry.suffix) {
			return entry.currency, true
		}
	}
	return "", false
}
