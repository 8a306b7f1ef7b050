package csvimport

import (
	"regexp"
	"strings"
)

// Confidence scores attached to a resolved field.
const (
	ConfidenceAlias    = 0.95
	ConfidenceGuess    = 0.7
	ConfidenceOverride = 0.55
	ReviewThreshold    = 0.6
)

var headerSeparators = regexp.MustCompile(`[\s-]+`)

// NormalizeHeader trims and lowercases a raw header and folds runs of
// whitespace and hyphens into underscores.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, utf8BOM)))
	return headerSeparators.ReplaceAllString(h, "_")
}

// headerAliases resolves exact normalized headers. New broker vocabularies
// are added here rather than in code.
var headerAliases = map[string]Field{
	"date":             FieldDate,
	"trade_date":       FieldDate,
	"transaction_date": FieldDate,
	"execution_date":   FieldDate,
	"settlement_date":  FieldDate,

	"platform":      FieldPlatform,
	"platform_name": FieldPlatform,
	"broker":        FieldPlatform,
	"broker_name":   FieldPlatform,
	"courtier":      FieldPlatform,
	"account":       FieldPlatform,

	"kind":             FieldKind,
	"type":             FieldKind,
	"trade_type":       FieldKind,
	"transaction_type": FieldKind,
	"side":             FieldKind,
	"action":           FieldKind,
	"operation":        FieldKind,

	"asset_symbol":  FieldAssetSymbol,
	"symbol":        FieldAssetSymbol,
	"ticker":        FieldAssetSymbol,
	"ticker_symbol": FieldAssetSymbol,
	"isin":          FieldAssetSymbol,

	"asset_name": FieldAssetName,
	"name":       FieldAssetName,
	"asset":      FieldAssetName,
	"security":   FieldAssetName,

	"asset_type":  FieldAssetType,
	"assetclass":  FieldAssetType,
	"asset_class": FieldAssetType,

	"qty":      FieldQty,
	"quantity": FieldQty,
	"shares":   FieldQty,
	"amount":   FieldQty,

	"price":      FieldPrice,
	"unit_price": FieldPrice,

	"currency":       FieldCurrency,
	"currency_code":  FieldCurrency,
	"price_currency": FieldCurrency,
	"devise":         FieldCurrency,

	"cash_currency":       FieldCashCurrency,
	"settlement_currency": FieldCashCurrency,

	"fee":         FieldFee,
	"fees":        FieldFee,
	"fee_amount":  FieldFee,
	"commission":  FieldFee,
	"commissions": FieldFee,
	"frais":       FieldFee,

	"note":    FieldNote,
	"notes":   FieldNote,
	"comment": FieldNote,
}

type guessRule struct {
	field   Field
	pattern *regexp.Regexp
}

// guessRules are tried in order after the alias table. Order matters:
// more specific fields come before the ones whose patterns overlap.
var guessRules = []guessRule{
	{FieldCashCurrency, regexp.MustCompile(`(cash|settle|payment|account).*(cur|ccy|devise)`)},
	{FieldCurrency, regexp.MustCompile(`(^|_)(ccy|cur|curr)($|_)|currency|devise|monnaie|waehrung`)},
	{FieldDate, regexp.MustCompile(`date|when|time|day|jour|datum|fecha`)},
	{FieldAssetType, regexp.MustCompile(`(asset|instrument|security|product).*(type|class|kind)|class|categor`)},
	{FieldKind, regexp.MustCompile(`type|side|(^|_)action($|_)|operation|direction|sens|nature|buy_sell|(^|_)op($|_)`)},
	{FieldPlatform, regexp.MustCompile(`broker|platform|account|where|courtier|venue|compte|portfolio|wallet`)},
	{FieldAssetSymbol, regexp.MustCompile(`tick|tkr|symb|isin|wkn|(^|_)code($|_)`)},
	{FieldPrice, regexp.MustCompile(`price|prix|(^|_)px($|_)|cours|quote|cost_per`)},
	{FieldFee, regexp.MustCompile(`fee|frais|commission|charge|cost`)},
	{FieldQty, regexp.MustCompile(`qty|quant|share|unit|volume|nombre|parts|size|nominal|amount`)},
	{FieldAssetName, regexp.MustCompile(`name|nom|instrument|security|product|produit|titre|title`)},
	{FieldNote, regexp.MustCompile(`note|comment|memo|remark|descr|libell`)},
}

// resolveHeader returns the field a raw header resolves to together with
// the confidence of the tier that produced it.
func resolveHeader(raw string) (Field, float64, bool) {
	normalized := NormalizeHeader(raw)
	if normalized == "" {
		return "", 0, false
	}
	if field, ok := headerAliases[normalized]; ok {
		return field, ConfidenceAlias, true
	}
	for _, rule := range guessRules {
		if rule.pattern.MatchString(normalized) {
			return rule.field, ConfidenceGuess, true
		}
	}
	return "", 0, false
}

// Suggestion is the auto-resolved mapping of a header row.
type Suggestion struct {
	Headers    []string          `json:"headers"`
	Signature  string            `json:"signature"`
	Mapping    Mapping           `json:"mapping"`
	Confidence map[Field]float64 `json:"confidence"`
}

// SuggestMapping resolves the header row of a CSV text.
func SuggestMapping(text string) Suggestion {
	rows := Tokenize(text)
	if len(rows) == 0 {
		return Suggestion{Mapping: Mapping{}, Confidence: map[Field]float64{}}
	}
	return SuggestFromHeaders(rows[0])
}

// SuggestFromHeaders resolves each header independently. An exact alias
// claims its field before any guessed header; within a tier the first
// header claims it.
func SuggestFromHeaders(headers []string) Suggestion {
	s := Suggestion{
		Headers:    trimHeaders(headers),
		Signature:  Signature(headers),
		Mapping:    Mapping{},
		Confidence: map[Field]float64{},
	}
	for _, aliasPass := range []bool{true, false} {
		for _, header := range s.Headers {
			field, score, ok := resolveHeader(header)
			if !ok || (score == ConfidenceAlias) != aliasPass {
				continue
			}
			if _, taken := s.Mapping[field]; taken {
				continue
			}
			s.Mapping[field] = header
			s.Confidence[field] = score
		}
	}
	return s
}

// Signature derives the stable key used to remember a mapping for a
// header layout.
func Signature(headers []string) string {
	parts := make([]string, 0, len(headers))
	for _, h := range headers {
		parts = append(parts, NormalizeHeader(h))
	}
	return strings.Join(parts, "|")
}

// Sanitize drops mapping entries that are not canonical fields or whose
// header is absent from headers.
func Sanitize(mapping Mapping, headers []string) Mapping {
	allowed := make(map[string]bool, len(headers))
	for _, h := range headers {
		allowed[strings.TrimSpace(h)] = true
	}
	out := Mapping{}
	for _, field := range Fields {
		header, ok := mapping[field]
		if ok && header != "" && allowed[strings.TrimSpace(header)] {
			out[field] = strings.TrimSpace(header)
		}
	}
	return out
}

// Merge overlays a caller mapping onto the suggestion. Both sides are
// sanitized against the suggestion's headers.
func (s Suggestion) Merge(override Mapping) Mapping {
	merged := Sanitize(s.Mapping, s.Headers)
	for field, header := range Sanitize(override, s.Headers) {
		merged[field] = header
	}
	return merged
}

// FieldConfidence scores the current mapping of a field: the suggestion's
// own score when the mapping agrees with it, a fixed medium-low score for
// a disagreeing override, and zero when unmapped.
func FieldConfidence(field Field, mapping, suggested Mapping, confidence map[Field]float64) float64 {
	current, ok := mapping[field]
	if !ok || current == "" {
		return 0
	}
	if current == suggested[field] {
		if score, ok := confidence[field]; ok {
			return score
		}
		return 0.5
	}
	return ConfidenceOverride
}

// MappingConfidence scores every canonical field of mapping.
func MappingConfidence(mapping, suggested Mapping, confidence map[Field]float64) map[Field]float64 {
	out := make(map[Field]float64, len(Fields))
	for _, field := range Fields {
		out[field] = FieldConfidence(field, mapping, suggested, confidence)
	}
	return out
}

// NeedsReview lists the review fields whose confidence is below the
// review threshold. It never blocks parsing.
func NeedsReview(mapping, suggested Mapping, confidence map[Field]float64) []Field {
	var out []Field
	for _, field := range ReviewFields {
		if FieldConfidence(field, mapping, suggested, confidence) < ReviewThreshold {
			out = append(out, field)
		}
	}
	return out
}

// columnFields assigns a field to every column. Auto resolution applies
// first, with guessed columns yielding to an exact alias of the same field;
// then each explicitly mapped field is moved onto its mapped column
// and removed from any other column that auto-resolved to it.
func columnFields(headers []string, mapping Mapping) []Field {
	columns := make([]Field, len(headers))
	guessed := make([]bool, len(headers))
	aliased := map[Field]bool{}
	for i, h := range headers {
		if field, score, ok := resolveHeader(h); ok {
			columns[i] = field
			guessed[i] = score != ConfidenceAlias
			if !guessed[i] {
				aliased[field] = true
			}
		}
	}
	for i, field := range columns {
		if guessed[i] && aliased[field] {
			columns[i] = ""
		}
	}
	for _, field := range Fields {
		header, ok := mapping[field]
		if !ok {
			continue
		}
		for i := range columns {
			if columns[i] == field {
				columns[i] = ""
			}
		}
		for i, h := range headers {
			if strings.TrimSpace(h) == header {
				columns[i] = field
			}
		}
	}
	return columns
}

func trimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}
	return out
}

// Resolution is a header row resolved against an optional caller mapping.
type Resolution struct {
	Suggestion
	Effective   Mapping           `json:"effective"`
	Scores      map[Field]float64 `json:"scores"`
	NeedsReview []Field           `json:"needs_review"`
}

// ResolveMapping suggests a mapping for headers, overlays override and
// scores the result.
func ResolveMapping(headers []string, override Mapping) Resolution {
	s := SuggestFromHeaders(headers)
	effective := s.Merge(override)
	return Resolution{
		Suggestion:  s,
		Effective:   effective,
		Scores:      MappingConfidence(effective, s.Mapping, s.Confidence),
		NeedsReview: NeedsReview(effective, s.Mapping, s.Confidence),
	}
}
