package csvimport

import (
	"fmt"
	"strings"
	"time"

	"folio/internal/models"

	"github.com/shopspring/decimal"
)

// Options tune Parse.
type Options struct {
	// DefaultCurrency applies when a row has no currency and none can be
	// inferred from its symbol. Empty means EUR.
	DefaultCurrency string
	// DefaultPlatform fills empty platform cells and lifts the platform
	// column requirement.
	DefaultPlatform string
	// ColumnMapping overrides the auto-resolved mapping per field.
	ColumnMapping Mapping
}

// Row is a validated, normalized transaction line.
type Row struct {
	Date         time.Time              `json:"date"`
	Platform     string                 `json:"platform"`
	Kind         models.TransactionKind `json:"kind"`
	Currency     string                 `json:"currency"`
	CashCurrency string                 `json:"cash_currency"`
	AssetSymbol  string                 `json:"asset_symbol,omitempty"`
	AssetName    string                 `json:"asset_name,omitempty"`
	AssetType    models.AssetType       `json:"asset_type,omitempty"`
	Qty          decimal.NullDecimal    `json:"qty"`
	Price        decimal.NullDecimal    `json:"price"`
	Fee          decimal.NullDecimal    `json:"fee"`
	Note         string                 `json:"note,omitempty"`
}

// RowError reports why a row was rejected. Row is 1-based with the header
// on row 1; structural failures use row 0.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the accepted rows and the rejected ones side by side.
type Result struct {
	Headers []string   `json:"headers"`
	Records []Row      `json:"records"`
	Errors  []RowError `json:"errors"`
}

// Structural reports whether the parse aborted before reading rows.
func (r Result) Structural() bool {
	return len(r.Errors) == 1 && r.Errors[0].Row == 0
}

// MessageEmptyFile is the structural error of a file without any row.
const MessageEmptyFile = "file is empty"

// Empty reports whether the input held no row at all.
func (r Result) Empty() bool {
	return r.Structural() && r.Errors[0].Message == MessageEmptyFile
}

// Parse tokenizes text, resolves its header row and normalizes every data
// row. It never fails as a whole: problems are reported in Result.Errors.
func Parse(text string, opts Options) Result {
	rows := Tokenize(text)
	if len(rows) == 0 {
		return Result{Errors: []RowError{{Row: 0, Message: MessageEmptyFile}}}
	}

	headers := trimHeaders(rows[0])
	override := Sanitize(opts.ColumnMapping, headers)
	columns := columnFields(headers, override)
	defaultPlatform := strings.TrimSpace(opts.DefaultPlatform)

	if missing := missingRequired(columns, defaultPlatform != ""); len(missing) > 0 {
		return Result{
			Headers: headers,
			Errors:  []RowError{{Row: 0, Message: missingColumnsMessage(missing)}},
		}
	}

	fallbackCurrency, ok := NormalizeCurrency(opts.DefaultCurrency)
	if !ok && strings.TrimSpace(opts.DefaultCurrency) == "" {
		fallbackCurrency = models.ReportingCurrency
	}

	result := Result{Headers: headers, Records: []Row{}, Errors: []RowError{}}
	for i := 1; i < len(rows); i++ {
		cells := rowCells(columns, rows[i])
		row, problems := normalizeRow(cells, defaultPlatform, fallbackCurrency)
		if len(problems) > 0 {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Message: strings.Join(problems, " ")})
			continue
		}
		result.Records = append(result.Records, row)
	}
	return result
}

func missingRequired(columns []Field, hasDefaultPlatform bool) []Field {
	present := make(map[Field]bool, len(columns))
	for _, f := range columns {
		present[f] = true
	}
	required := []Field{FieldDate, FieldPlatform, FieldKind}
	var missing []Field
	for _, f := range required {
		if f == FieldPlatform && hasDefaultPlatform {
			continue
		}
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

func missingColumnsMessage(missing []Field) string {
	names := make([]string, len(missing))
	platformMissing := false
	for i, f := range missing {
		names[i] = string(f)
		if f == FieldPlatform {
			platformMissing = true
		}
	}
	msg := "missing columns: " + strings.Join(names, ", ") + "."
	if platformMissing {
		msg += " Pick a default broker when the file has no platform column."
	}
	return msg
}

// rowCells picks, per field, the first non-empty cell among the columns
// assigned to it. Short rows read as empty cells.
func rowCells(columns []Field, raw []string) map[Field]string {
	cells := make(map[Field]string, len(columns))
	for i, field := range columns {
		if field == "" {
			continue
		}
		var value string
		if i < len(raw) {
			value = strings.TrimSpace(raw[i])
		}
		if cells[field] == "" {
			cells[field] = value
		}
	}
	return cells
}

func normalizeRow(cells map[Field]string, defaultPlatform, fallbackCurrency string) (Row, []string) {
	var (
		row      Row
		problems []string
	)

	row.Platform = cells[FieldPlatform]
	if row.Platform == "" {
		row.Platform = defaultPlatform
	}
	if row.Platform == "" {
		problems = append(problems, "platform is required.")
	}

	row.AssetSymbol = cells[FieldAssetSymbol]

	currency, provided := "", cells[FieldCurrency]
	if provided != "" {
		code, ok := NormalizeCurrency(provided)
		if !ok {
			problems = append(problems, fmt.Sprintf("invalid currency %q: use an ISO code (EUR, USD...).", provided))
		}
		currency = code
	}
	if currency == "" && provided == "" {
		if inferred, ok := InferCurrencyFromSymbol(row.AssetSymbol); ok {
			currency = inferred
		} else {
			currency = fallbackCurrency
		}
		if currency == "" {
			problems = append(problems, "unable to determine the currency of the row.")
		}
	}
	row.Currency = currency

	row.CashCurrency = currency
	if raw := cells[FieldCashCurrency]; raw != "" {
		code, ok := NormalizeCurrency(raw)
		if !ok {
			problems = append(problems, fmt.Sprintf("invalid cash currency %q.", raw))
		}
		row.CashCurrency = code
	}

	kind, ok := ParseKind(cells[FieldKind])
	if !ok {
		problems = append(problems, fmt.Sprintf("invalid transaction kind %q. Accepted values: %s.", cells[FieldKind], joinKinds()))
	}
	row.Kind = kind

	date, ok := ParseDate(cells[FieldDate])
	if !ok {
		problems = append(problems, "date must contain a valid date (ISO, DD/MM/YYYY or timestamp).")
	}
	row.Date = date

	row.Qty = parseOptionalNumber(cells[FieldQty])
	row.Price = parseOptionalNumber(cells[FieldPrice])
	row.Fee = parseOptionalNumber(cells[FieldFee])
	row.Note = cells[FieldNote]

	if raw := cells[FieldAssetType]; raw != "" {
		assetType, ok := ParseAssetType(raw)
		if !ok {
			problems = append(problems, fmt.Sprintf("invalid asset_type %q. Accepted values: %s.", raw, joinAssetTypes()))
		}
		row.AssetType = assetType
	}

	if kind.RequiresAsset() {
		if row.AssetSymbol == "" {
			problems = append(problems, "asset_symbol is required for BUY / SELL.")
		}
		if !row.Qty.Valid || !row.Qty.Decimal.IsPositive() {
			problems = append(problems, "qty must be positive for BUY / SELL.")
		}
		if !row.Price.Valid || row.Price.Decimal.IsNegative() {
			problems = append(problems, "price must be provided for BUY / SELL.")
		}
		if row.AssetType == "" {
			row.AssetType = models.AssetTypeStock
		}
	}

	row.AssetName = cells[FieldAssetName]
	if row.AssetName == "" {
		row.AssetName = row.AssetSymbol
	}
	return row, problems
}

func joinKinds() string {
	names := make([]string, len(models.TransactionKinds))
	for i, k := range models.TransactionKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func joinAssetTypes() string {
	names := make([]string, len(models.AssetTypes))
	for i, t := range models.AssetTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
