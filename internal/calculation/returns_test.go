package calculation

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnScheduleFallsBackToFixed(t *testing.T) {
	rs := ReturnSchedule{Fixed: dec("0.03"), PerYear: []decimal.Decimal{dec("0.10"), dec("-0.20")}}
	assert.True(t, rs.At(0).Equal(dec("0.10")))
	assert.True(t, rs.At(1).Equal(dec("-0.20")))
	assert.True(t, rs.At(2).Equal(dec("0.03")))
	assert.True(t, rs.At(-1).Equal(dec("0.03")))
	assert.True(t, FixedReturns(dec("0.07")).At(12).Equal(dec("0.07")))
}

func TestNormalReturnGeneratorIsSeeded(t *testing.T) {
	a := NewNormalReturnGenerator(7, dec("0.06"), dec("0.12")).Schedule(30)
	b := NewNormalReturnGenerator(7, dec("0.06"), dec("0.12")).Schedule(30)
	c := NewNormalReturnGenerator(8, dec("0.06"), dec("0.12")).Schedule(30)

	require.Len(t, a.PerYear, 30)
	same := true
	for i := range a.PerYear {
		assert.True(t, a.PerYear[i].Equal(b.PerYear[i]), "year %d", i)
		if !a.PerYear[i].Equal(c.PerYear[i]) {
			same = false
		}
	}
	assert.False(t, same, "different seeds should give different draws")
	assert.True(t, a.Fixed.Equal(dec("0.06")))
}

func TestStandardNormalMoments(t *testing.T) {
	gen := NewNormalReturnGenerator(1, dec("0"), dec("1"))
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		z := gen.StandardNormal()
		require.False(t, math.IsNaN(z) || math.IsInf(z, 0))
		sum += z
		sumSq += z * z
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.05)
}

func TestZeroVolatilityReturnsMean(t *testing.T) {
	gen := NewNormalReturnGenerator(3, dec("0.05"), decimal.Zero)
	for i := 0; i < 10; i++ {
		assert.True(t, gen.Next().Equal(dec("0.05")))
	}
}
