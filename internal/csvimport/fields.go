package csvimport

// Field is a canonical transaction attribute every input column resolves to.
type Field string

const (
	FieldDate         Field = "date"
	FieldPlatform     Field = "platform"
	FieldKind         Field = "kind"
	FieldAssetSymbol  Field = "asset_symbol"
	FieldAssetName    Field = "asset_name"
	FieldAssetType    Field = "asset_type"
	FieldQty          Field = "qty"
	FieldPrice        Field = "price"
	FieldCurrency     Field = "currency"
	FieldCashCurrency Field = "cash_currency"
	FieldFee          Field = "fee"
	FieldNote         Field = "note"
)

// Fields lists every canonical field in mapping-assistant order.
var Fields = []Field{
	FieldDate,
	FieldPlatform,
	FieldKind,
	FieldAssetSymbol,
	FieldAssetName,
	FieldAssetType,
	FieldQty,
	FieldPrice,
	FieldCurrency,
	FieldCashCurrency,
	FieldFee,
	FieldNote,
}

// NormalizedHeaders is the column layout of the reference import format.
var NormalizedHeaders = []Field{
	FieldDate,
	FieldPlatform,
	FieldCurrency,
	FieldKind,
	FieldAssetSymbol,
	FieldAssetName,
	FieldAssetType,
	FieldQty,
	FieldPrice,
	FieldFee,
	FieldNote,
}

// ReviewFields are the fields whose low-confidence mapping asks for
// confirmation before an import is considered ready.
var ReviewFields = []Field{FieldDate, FieldKind}

// Valid reports whether f is a canonical field.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Mapping maps canonical fields to raw header strings. It is partial.
type Mapping map[Field]string

// Clone returns a copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
