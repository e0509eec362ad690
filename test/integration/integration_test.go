package integration

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/output"
)

func TestOutputFormats(t *testing.T) {
	cfg := loadRetireeConfig(t)
	report := output.NewProjectionReport(runAll(t, cfg)...)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)
			out, err := f.Format(report)
			require.NoError(t, err)
			require.NotEmpty(t, out)
			for _, sc := range cfg.Scenarios {
				assert.Contains(t, string(out), sc.Name)
			}
		})
	}

	t.Run("json round trip", func(t *testing.T) {
		out, err := output.GetFormatterByName("json").Format(report)
		require.NoError(t, err)

		var decoded struct {
			Projections []struct {
				ScenarioName   string `json:"scenarioName"`
				Success        bool   `json:"success"`
				YearsSimulated int    `json:"yearsSimulated"`
			} `json:"projections"`
		}
		require.NoError(t, json.Unmarshal(out, &decoded))
		require.Len(t, decoded.Projections, len(report.Projections))
		for i, p := range decoded.Projections {
			assert.Equal(t, report.Projections[i].ScenarioName, p.ScenarioName)
			assert.Equal(t, report.Projections[i].Success, p.Success)
			assert.Equal(t, report.Projections[i].YearsSimulated, p.YearsSimulated)
		}
	})

	t.Run("csv has a row per planned year", func(t *testing.T) {
		out, err := output.GetFormatterByName("csv").Format(report)
		require.NoError(t, err)
		rows := 0
		for _, res := range report.Projections {
			rows += len(res.Plans)
		}
		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		// year header + rows + blank + summary header + one summary per scenario
		assert.Len(t, lines, 1+rows+2+len(report.Projections))
	})
}

func TestMonteCarloEndToEnd(t *testing.T) {
	cfg := loadRetireeConfig(t)
	engine := calculation.NewCalculationEngine()
	scenario, err := cfg.ScenarioByName("early-retiree")
	require.NoError(t, err)

	mc := calculation.MonteCarloConfigFrom(cfg)
	var calls atomic.Int64
	result, err := engine.RunMonteCarlo(context.Background(), scenario, mc, func(done, total int) {
		calls.Add(1)
		assert.Equal(t, mc.NumRuns, total)
	})
	require.NoError(t, err)

	assert.EqualValues(t, mc.NumRuns, calls.Load())
	assert.Equal(t, mc.NumRuns, result.NumRuns)
	assert.True(t, result.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.SuccessRate.LessThanOrEqual(decimal.NewFromInt(100)))
	assert.True(t, result.Percentile10Value.LessThanOrEqual(result.MedianFinalValue))
	assert.True(t, result.MedianFinalValue.LessThanOrEqual(result.Percentile90Value))
	require.NotNil(t, result.MedianRun)
	assert.Equal(t, "early-retiree", result.MedianRun.ScenarioName)

	t.Run("worker count does not change the outcome", func(t *testing.T) {
		serial := mc
		serial.Workers = 1
		again, err := engine.RunMonteCarlo(context.Background(), scenario, serial, nil)
		require.NoError(t, err)
		if diff := cmp.Diff(result.SuccessRate.String(), again.SuccessRate.String()); diff != "" {
			t.Errorf("success rate mismatch (-parallel +serial):\n%s", diff)
		}
		assert.True(t, result.MedianFinalValue.Equal(again.MedianFinalValue))
		assert.True(t, result.Percentile10Value.Equal(again.Percentile10Value))
	})

	t.Run("report renders", func(t *testing.T) {
		out, err := output.GetFormatterByName("console").Format(output.NewMonteCarloReport(result))
		require.NoError(t, err)
		assert.Contains(t, string(out), "MONTE CARLO SIMULATION: early-retiree")
		assert.Contains(t, string(out), output.RiskLevel(result.SuccessRate))
	})

	t.Run("cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.RunMonteCarlo(ctx, scenario, mc, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProjectionPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance check in short mode")
	}
	cfg := loadRetireeConfig(t)
	engine := calculation.NewCalculationEngine()

	start := time.Now()
	for i := 0; i < 20; i++ {
		_, err := engine.RunScenarios(context.Background(), cfg)
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 10*time.Second)
}
