package money

import (
	"github.com/shopspring/decimal"
)

// RoundingMode selects how Context.Round settles the last kept digit.
type RoundingMode int

const (
	// RoundHalfUp rounds half away from zero.
	RoundHalfUp RoundingMode = iota
	// RoundHalfEven is banker's rounding.
	RoundHalfEven
)

// Context carries the arithmetic settings used for every monetary operation
// in a run. It is built once and passed by value; shopspring's package-level
// DivisionPrecision is never consulted or changed.
type Context struct {
	// DivisionPrecision is the number of fractional digits kept by Div.
	DivisionPrecision int32
	// Places is the number of fractional digits kept by Round and Grow.
	Places   int32
	Rounding RoundingMode
}

// DefaultContext keeps 20 digits on division and 10 on stored balances.
var DefaultContext = Context{DivisionPrecision: 20, Places: 10, Rounding: RoundHalfUp}

// Zero is the additive identity.
var Zero = decimal.Zero

// One is the multiplicative identity.
var One = decimal.NewFromInt(1)

// Hundred converts ratios to percentages.
var Hundred = decimal.NewFromInt(100)

// Div divides a by b at the context's division precision. Division by zero
// returns zero.
func (c Context) Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, c.DivisionPrecision)
}

// Round rounds d to the context's stored places.
func (c Context) Round(d decimal.Decimal) decimal.Decimal {
	if c.Rounding == RoundHalfEven {
		return d.RoundBank(c.Places)
	}
	return d.Round(c.Places)
}

// Grow returns amount × (1+rate), rounded to the stored places.
func (c Context) Grow(amount, rate decimal.Decimal) decimal.Decimal {
	return c.Round(amount.Mul(One.Add(rate)))
}

// Compound returns (1+rate)^years. Non-positive years yield one.
func (c Context) Compound(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return One
	}
	factor := One
	base := One.Add(rate)
	for i := 0; i < years; i++ {
		factor = c.Round(factor.Mul(base))
	}
	return factor
}

// Percent returns part/whole × 100.
func (c Context) Percent(part, whole decimal.Decimal) decimal.Decimal {
	return c.Div(part.Mul(Hundred), whole)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Floor0 clamps negative values to zero.
func Floor0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds every value.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// MustParse parses a literal decimal and panics on malformed input. Use only
// for compile-time constants.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
