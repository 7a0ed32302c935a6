package handlers

import (
	"errors"

	"sosol/internal/money"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")
var errInvalidRate = errors.New("invalid rate")

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

// parseRate validates an interest rate such as "0.05" and normalizes it to
// six decimal places.
func parseRate(raw string) (string, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		return "", errInvalidRate
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return "", errInvalidRate
	}
	if rate.Exponent() < -6 {
		return "", errInvalidRate
	}
	return rate.StringFixedBank(6), nil
}
