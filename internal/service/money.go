package service

import "github.com/shopspring/decimal"

// parseMoney parses a decimal string from a request payload. Empty means
// zero; negative amounts are rejected.
func parseMoney(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: "not a valid amount"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return d, nil
}
