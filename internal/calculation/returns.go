package calculation

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
)

// minUniform keeps the Box-Muller log away from zero.
const minUniform = 1e-12

// ReturnSchedule supplies the growth rate applied after each simulated
// year. PerYear entries are used first; later years fall back to Fixed.
type ReturnSchedule struct {
	Fixed   decimal.Decimal
	PerYear []decimal.Decimal
}

// FixedReturns applies rate every year.
func FixedReturns(rate decimal.Decimal) ReturnSchedule {
	return ReturnSchedule{Fixed: rate}
}

// At returns the rate for the zero-based year index.
func (rs ReturnSchedule) At(i int) decimal.Decimal {
	if i >= 0 && i < len(rs.PerYear) {
		return rs.PerYear[i]
	}
	return rs.Fixed
}

// NormalReturnGenerator draws annual returns from a normal distribution
// using the Box-Muller transform. Each generator owns its source and must
// not be shared between goroutines.
type NormalReturnGenerator struct {
	rng        *rand.Rand
	mean       decimal.Decimal
	volatility decimal.Decimal
}

// NewNormalReturnGenerator seeds a generator for one trial.
func NewNormalReturnGenerator(seed int64, mean, volatility decimal.Decimal) *NormalReturnGenerator {
	return &NormalReturnGenerator{
		rng:        rand.New(rand.NewSource(seed)),
		mean:       mean,
		volatility: volatility,
	}
}

// StandardNormal returns one N(0,1) sample.
func (g *NormalReturnGenerator) StandardNormal() float64 {
	u1 := g.rng.Float64()
	if u1 < minUniform {
		u1 = minUniform
	}
	u2 := g.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Next returns mean + volatility × z.
func (g *NormalReturnGenerator) Next() decimal.Decimal {
	z := decimal.NewFromFloat(g.StandardNormal())
	return g.mean.Add(g.volatility.Mul(z))
}

// Schedule draws n annual returns.
func (g *NormalReturnGenerator) Schedule(n int) ReturnSchedule {
	returns := make([]decimal.Decimal, n)
	for i := range returns {
		returns[i] = g.Next()
	}
	return ReturnSchedule{Fixed: g.mean, PerYear: returns}
}
