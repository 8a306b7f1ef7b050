package csvimport

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var plainNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

const currencySymbols = "€$£¥₿"

// ParseNumber parses a locale-formatted amount exactly.
//
// Whitespace, apostrophes, currency symbols and a leading or trailing
// ISO 4217 code are ignored; surrounding parentheses mean a
// negative amount. When both ',' and '.' appear, the later one is the
// decimal separator. A single ',' alone is a decimal separator, several
// are thousands separators. "1.234" therefore reads as 1.234: the
// heuristic cannot tell locales apart without more context.
func ParseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' || r == '’' || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, raw)
	s = trimCurrencyCodes(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}

	s = normalizeSeparators(s)
	if !plainNumber.MatchString(s) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// trimCurrencyCodes drops an ISO 4217 code at either end of s. Other
// letters are kept so the number is rejected.
func trimCurrencyCodes(s string) string {
	if len(s) >= 3 && isCurrencyCode(s[:3]) {
		s = s[3:]
	}
	if len(s) >= 3 && isCurrencyCode(s[len(s)-3:]) {
		s = s[:len(s)-3]
	}
	return s
}

func isCurrencyCode(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return money.GetCurrency(strings.ToUpper(s)) != nil
}

func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// parseOptionalNumber returns a null decimal for blank or unparseable
// input.
func parseOptionalNumber(raw string) decimal.NullDecimal {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}
	}
	d, ok := ParseNumber(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
