// Package core provides money parsing and handling utilities.
//
// Amounts travel as decimal.Decimal with two fraction digits and are
// persisted as integer cents.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fraction digits kept for amounts.
const AmountScale = 2

// MaxAmount is the largest amount a numeric(18,2) column holds. Its cents
// also fit in int64.
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

// ParseAmount converts a decimal string to an amount rounded half away
// from zero to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signed, malformed and exponent values are rejected, as are values that
// round to zero. Values above MaxAmount return ErrAmountTooLarge.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = RoundAmount(d)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}

// RoundAmount rounds half away from zero to cents.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// CentsFromDecimal converts an amount to integer cents after rounding.
// Amounts whose cents do not fit in int64 return ErrAmountTooLarge.
func CentsFromDecimal(d decimal.Decimal) (int64, error) {
	cents := RoundAmount(d).Shift(AmountScale)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrAmountTooLarge, d.String())
	}
	return cents.IntPart(), nil
}

// DecimalFromCents converts integer cents back to an amount.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -AmountScale)
}
