package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
)

// CalculationEngine is the entry point used by the CLI and TUI. It builds
// projection and Monte Carlo engines from loaded configuration.
type CalculationEngine struct {
	Money  money.Context
	logger Logger
}

// NewCalculationEngine creates an engine using the default arithmetic context.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Money: money.DefaultContext, logger: NopLogger{}}
}

// SetLogger sets the logger passed to every engine this one builds.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.logger = l
}

// ProjectionSchedule converts file assumptions to a return schedule.
func ProjectionSchedule(a domain.Assumptions) ReturnSchedule {
	return ReturnSchedule{Fixed: a.ReturnRate, PerYear: a.Returns}
}

// RunProjection runs one scenario deterministically.
func (ce *CalculationEngine) RunProjection(ctx context.Context, scenario *domain.Scenario, maxYears int, returns ReturnSchedule) (*domain.ProjectionResult, error) {
	pe, err := NewProjectionEngine(scenario, ce.Money)
	if err != nil {
		return nil, err
	}
	pe.SetLogger(ce.logger)
	return pe.Run(ctx, maxYears, returns)
}

// RunScenarios projects every scenario in config under its assumptions.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) ([]*domain.ProjectionResult, error) {
	results := make([]*domain.ProjectionResult, 0, len(config.Scenarios))
	schedule := ProjectionSchedule(config.Assumptions)
	for i := range config.Scenarios {
		res, err := ce.RunProjection(ctx, &config.Scenarios[i], config.Assumptions.MaxYears, schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario %s: %w", config.Scenarios[i].Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// MonteCarloConfigFrom builds a run configuration from file settings.
func MonteCarloConfigFrom(config *domain.Configuration) MonteCarloConfig {
	return MonteCarloConfig{
		NumRuns:    config.MonteCarlo.Runs,
		MaxYears:   config.Assumptions.MaxYears,
		MeanReturn: config.MonteCarlo.MeanReturn,
		Volatility: config.MonteCarlo.Volatility,
		Seed:       config.MonteCarlo.Seed,
		Workers:    config.MonteCarlo.Workers,
	}
}

// RunMonteCarlo runs a Monte Carlo simulation for scenario. progress may be nil.
func (ce *CalculationEngine) RunMonteCarlo(ctx context.Context, scenario *domain.Scenario, cfg MonteCarloConfig, progress ProgressFunc) (*domain.MonteCarloResult, error) {
	mce, err := NewMonteCarloEngine(scenario, ce.Money)
	if err != nil {
		return nil, err
	}
	mce.SetLogger(ce.logger)
	mce.SetProgress(progress)
	return mce.Run(ctx, cfg)
}
