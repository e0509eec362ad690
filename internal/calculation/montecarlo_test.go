package calculation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func monteCarloConfig(runs, workers int) MonteCarloConfig {
	return MonteCarloConfig{
		NumRuns:    runs,
		MaxYears:   20,
		MeanReturn: dec("0.06"),
		Volatility: dec("0.12"),
		Seed:       42,
		Workers:    workers,
	}
}

func TestMonteCarloPercentileOrdering(t *testing.T) {
	defer goleak.VerifyNone(t)

	mce, err := NewMonteCarloEngine(traditionalScenario("500000"), money.DefaultContext)
	require.NoError(t, err)

	res, err := mce.Run(context.Background(), monteCarloConfig(100, 4))
	require.NoError(t, err)

	assert.Equal(t, 100, res.NumRuns)
	assert.Equal(t, "traditional-only", res.ScenarioName)
	assert.True(t, res.Percentile10Value.LessThanOrEqual(res.MedianFinalValue))
	assert.True(t, res.MedianFinalValue.LessThanOrEqual(res.Percentile90Value))
	assert.True(t, res.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, res.SuccessRate.LessThanOrEqual(money.Hundred))

	require.NotNil(t, res.MedianRun)
	require.NotNil(t, res.Percentile10Run)
	require.NotNil(t, res.Percentile90Run)
	assert.True(t, res.MedianRun.FinalPortfolioValue.Equal(res.MedianFinalValue))
	assert.True(t, res.Percentile10Run.FinalPortfolioValue.Equal(res.Percentile10Value))
}

func TestMonteCarloDeterministicAcrossWorkerCounts(t *testing.T) {
	defer goleak.VerifyNone(t)

	mce, err := NewMonteCarloEngine(traditionalScenario("400000"), money.DefaultContext)
	require.NoError(t, err)

	serial, err := mce.Run(context.Background(), monteCarloConfig(40, 1))
	require.NoError(t, err)
	parallel, err := mce.Run(context.Background(), monteCarloConfig(40, 8))
	require.NoError(t, err)

	assert.True(t, serial.SuccessRate.Equal(parallel.SuccessRate))
	assert.True(t, serial.MedianFinalValue.Equal(parallel.MedianFinalValue))
	assert.True(t, serial.Percentile10Value.Equal(parallel.Percentile10Value))
	assert.True(t, serial.Percentile90Value.Equal(parallel.Percentile90Value))
}

func TestMonteCarloZeroVolatilityMatchesProjection(t *testing.T) {
	scenario := traditionalScenario("500000")
	mce, err := NewMonteCarloEngine(scenario, money.DefaultContext)
	require.NoError(t, err)
	cfg := monteCarloConfig(5, 0)
	cfg.Volatility = decimal.Zero
	cfg.MeanReturn = dec("0.05")

	mc, err := mce.Run(context.Background(), cfg)
	require.NoError(t, err)

	pe, err := NewProjectionEngine(scenario, money.DefaultContext)
	require.NoError(t, err)
	det, err := pe.Run(context.Background(), cfg.MaxYears, FixedReturns(dec("0.05")))
	require.NoError(t, err)

	assert.True(t, mc.MedianFinalValue.Equal(det.FinalPortfolioValue), "%s vs %s", mc.MedianFinalValue, det.FinalPortfolioValue)
	assert.True(t, mc.SuccessRate.Equal(money.Hundred))
}

func TestMonteCarloAllTrialsFail(t *testing.T) {
	scenario := traditionalScenario("100")
	scenario.Policy.WithdrawalRate = decPtr("2")
	mce, err := NewMonteCarloEngine(scenario, money.DefaultContext)
	require.NoError(t, err)

	res, err := mce.Run(context.Background(), monteCarloConfig(10, 2))
	require.NoError(t, err)
	assert.True(t, res.SuccessRate.IsZero(), res.SuccessRate.String())
}

func TestMonteCarloProgress(t *testing.T) {
	mce, err := NewMonteCarloEngine(traditionalScenario("500000"), money.DefaultContext)
	require.NoError(t, err)

	var calls, maxDone atomic.Int64
	mce.SetProgress(func(done, total int) {
		calls.Add(1)
		assert.Equal(t, 25, total)
		for {
			cur := maxDone.Load()
			if int64(done) <= cur || maxDone.CompareAndSwap(cur, int64(done)) {
				break
			}
		}
	})

	_, err = mce.Run(context.Background(), monteCarloConfig(25, 3))
	require.NoError(t, err)
	assert.EqualValues(t, 25, calls.Load())
	assert.EqualValues(t, 25, maxDone.Load())
}

func TestMonteCarloCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	mce, err := NewMonteCarloEngine(traditionalScenario("500000"), money.DefaultContext)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mce.Run(ctx, monteCarloConfig(50, 4))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMonteCarloConfigValidation(t *testing.T) {
	mce, err := NewMonteCarloEngine(traditionalScenario("500000"), money.DefaultContext)
	require.NoError(t, err)

	cfg := monteCarloConfig(0, 1)
	_, err = mce.Run(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrInvalidRuns))

	cfg = monteCarloConfig(10, 1)
	cfg.MaxYears = 0
	_, err = mce.Run(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrInvalidYears))

	cfg = monteCarloConfig(10, 1)
	cfg.Volatility = dec("-0.01")
	_, err = mce.Run(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrNegativeVolatility))
}

func TestNearestRankIndex(t *testing.T) {
	tests := []struct {
		n, p, expected int
	}{
		{100, 10, 10},
		{100, 50, 50},
		{100, 90, 90},
		{1, 50, 0},
		{1, 90, 0},
		{7, 50, 3},
		{10, 100, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NearestRankIndex(tt.n, tt.p), "n=%d p=%d", tt.n, tt.p)
	}
}
