// Package core provides the domain model shared by the parser, budget, and
// analytics packages.
//
// This file contains conversions between decimal amounts and integer cents,
// the representation the SQLite repository stores. Cents keep SQL aggregation
// exact; decimals keep the arithmetic in analytics exact.
package core

import "github.com/shopspring/decimal"

// Cents converts an amount to integer cents with half-up rounding on the
// third decimal place.
//
// Examples:
//
//	Cents(decimal 12.34)  -> 1234
//	Cents(decimal 12.345) -> 1235 (rounds up)
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.NewFromInt(c).Shift(-2)
}
