package calculation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidRuns        = errors.New("number of runs must be positive")
	ErrNegativeVolatility = errors.New("volatility must not be negative")
)

// MonteCarloConfig holds configuration for a Monte Carlo simulation.
// Trial i draws its returns from a source seeded with Seed+i, so results
// do not depend on Workers.
type MonteCarloConfig struct {
	NumRuns    int
	MaxYears   int
	MeanReturn decimal.Decimal
	Volatility decimal.Decimal
	Seed       int64
	// Workers bounds concurrent trials; zero means GOMAXPROCS.
	Workers int
}

// Validate checks the run parameters.
func (c MonteCarloConfig) Validate() error {
	if c.NumRuns <= 0 {
		return fmt.Errorf("%d: %w", c.NumRuns, ErrInvalidRuns)
	}
	if c.MaxYears <= 0 {
		return fmt.Errorf("%d: %w", c.MaxYears, ErrInvalidYears)
	}
	if c.Volatility.IsNegative() {
		return fmt.Errorf("%s: %w", c.Volatility.String(), ErrNegativeVolatility)
	}
	return nil
}

// ProgressFunc is called after each completed trial. It may be called from
// several goroutines at once.
type ProgressFunc func(done, total int)

// MonteCarloEngine runs a scenario many times under random returns.
type MonteCarloEngine struct {
	projection *ProjectionEngine
	money      money.Context
	logger     Logger
	progress   ProgressFunc
}

// NewMonteCarloEngine validates scenario and returns an engine for it.
func NewMonteCarloEngine(scenario *domain.Scenario, m money.Context) (*MonteCarloEngine, error) {
	pe, err := NewProjectionEngine(scenario, m)
	if err != nil {
		return nil, err
	}
	return &MonteCarloEngine{projection: pe, money: m, logger: NopLogger{}}, nil
}

// SetLogger sets the logger used by the engine and every trial.
func (mce *MonteCarloEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	mce.logger = l
	mce.projection.SetLogger(l)
}

// SetProgress installs a progress callback.
func (mce *MonteCarloEngine) SetProgress(fn ProgressFunc) { mce.progress = fn }

// Run executes cfg.NumRuns independent trials and aggregates them.
// Cancelling ctx stops scheduling new trials and aborts running ones
// between years.
func (mce *MonteCarloEngine) Run(ctx context.Context, cfg MonteCarloConfig) (*domain.MonteCarloResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	mce.logger.Infof("monte carlo %s: %d runs x %d years, mean %s, volatility %s, %d workers",
		mce.projection.scenario.Name, cfg.NumRuns, cfg.MaxYears, cfg.MeanReturn.String(), cfg.Volatility.String(), workers)

	trials := make([]*domain.ProjectionResult, cfg.NumRuns)
	var done atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < cfg.NumRuns; i++ {
		if egCtx.Err() != nil {
			break
		}
		trial := i
		eg.Go(func() error {
			gen := NewNormalReturnGenerator(cfg.Seed+int64(trial), cfg.MeanReturn, cfg.Volatility)
			res, err := mce.projection.Run(egCtx, cfg.MaxYears, gen.Schedule(cfg.MaxYears))
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			trials[trial] = res
			n := done.Add(1)
			if mce.progress != nil {
				mce.progress(int(n), cfg.NumRuns)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return mce.summarize(cfg, trials), nil
}

func (mce *MonteCarloEngine) summarize(cfg MonteCarloConfig, trials []*domain.ProjectionResult) *domain.MonteCarloResult {
	successes := 0
	for _, t := range trials {
		if t.Success {
			successes++
		}
	}

	sorted := append([]*domain.ProjectionResult(nil), trials...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalPortfolioValue.LessThan(sorted[j].FinalPortfolioValue)
	})

	n := len(sorted)
	p10 := sorted[NearestRankIndex(n, 10)]
	p50 := sorted[NearestRankIndex(n, 50)]
	p90 := sorted[NearestRankIndex(n, 90)]

	result := &domain.MonteCarloResult{
		ScenarioName:      mce.projection.scenario.Name,
		NumRuns:           n,
		MaxYears:          cfg.MaxYears,
		MeanReturn:        cfg.MeanReturn,
		Volatility:        cfg.Volatility,
		SuccessRate:       mce.money.Percent(decimal.NewFromInt(int64(successes)), decimal.NewFromInt(int64(n))),
		MedianFinalValue:  p50.FinalPortfolioValue,
		Percentile10Value: p10.FinalPortfolioValue,
		Percentile90Value: p90.FinalPortfolioValue,
		MedianRun:         p50,
		Percentile10Run:   p10,
		Percentile90Run:   p90,
	}
	mce.logger.Infof("monte carlo %s: success %s%%, median final %s",
		result.ScenarioName, result.SuccessRate.StringFixed(2), result.MedianFinalValue.StringFixed(2))
	return result
}

// NearestRankIndex returns floor(n × percentile / 100), the index of the
// representative run in a sorted slice of n trials.
func NearestRankIndex(n, percentile int) int {
	idx := n * percentile / 100
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
