package services

import (
	"strings"

	"github.com/Rhymond/go-money"

	apperrors "folio/internal/errors"
)

// normalizeCurrency upper-cases code and checks it against the ISO 4217 table.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 || money.GetCurrency(code) == nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Currency must be an ISO 4217 code")
	}
	return code, nil
}
