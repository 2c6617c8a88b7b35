// Package tax holds the pure GST rule selection, validation and arithmetic.
// Nothing here touches storage; the service layer feeds it candidate rows.
package tax

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Round2 rounds to paisa, half away from zero. Amounts reaching it are never
// negative, so this is round-half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns round2(base * rate / 100).
func PercentOf(base, rate decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(rate).Div(hundred))
}

func positive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}

func negative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}
