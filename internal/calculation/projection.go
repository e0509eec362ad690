package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// ErrInvalidYears is returned for a non-positive projection horizon.
var ErrInvalidYears = errors.New("max years must be positive")

// ProjectionEngine runs a scenario year by year. It keeps no per-run state,
// so one engine may run concurrently from several goroutines.
type ProjectionEngine struct {
	scenario domain.Scenario
	money    money.Context
	taxCalc  *FederalTaxCalculator
	logger   Logger
}

// NewProjectionEngine validates scenario and returns an engine for it.
func NewProjectionEngine(scenario *domain.Scenario, m money.Context) (*ProjectionEngine, error) {
	if scenario == nil {
		return nil, errors.New("scenario is required")
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	return &ProjectionEngine{
		scenario: *scenario,
		money:    m,
		taxCalc:  NewFederalTaxCalculator2024(),
		logger:   NopLogger{},
	}, nil
}

// SetLogger sets the logger; nil restores the no-op logger.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	pe.logger = l
}

// Scenario returns the scenario this engine runs.
func (pe *ProjectionEngine) Scenario() domain.Scenario { return pe.scenario }

// NewCoordinator builds fresh accounts from the scenario and a coordinator
// that owns them.
func (pe *ProjectionEngine) NewCoordinator() (*WithdrawalCoordinator, error) {
	profile := *pe.scenario.Profile
	accounts := make([]*Account, 0, len(pe.scenario.Accounts))
	for _, def := range pe.scenario.Accounts {
		acct, err := NewAccount(def, profile.BirthYear, pe.money)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	wc, err := NewWithdrawalCoordinator(accounts, profile, *pe.scenario.Policy, pe.scenario.SocialSecurity,
		pe.scenario.FirstYear(), pe.taxCalc, pe.money)
	if err != nil {
		return nil, err
	}
	wc.SetLogger(pe.logger)
	return wc, nil
}

// Run simulates up to maxYears. A year whose opening portfolio is empty is
// recorded as the failure year without being planned; a year that empties
// the portfolio before covering its need is planned, recorded, and is the
// failure year. ctx is checked before every year.
func (pe *ProjectionEngine) Run(ctx context.Context, maxYears int, returns ReturnSchedule) (*domain.ProjectionResult, error) {
	if maxYears <= 0 {
		return nil, fmt.Errorf("%d: %w", maxYears, ErrInvalidYears)
	}
	wc, err := pe.NewCoordinator()
	if err != nil {
		return nil, err
	}

	result := &domain.ProjectionResult{
		ScenarioName:           pe.scenario.Name,
		Success:                true,
		StartYear:              wc.Year(),
		StartingPortfolioValue: wc.TotalPortfolioValue(),
		Plans:                  make([]domain.WithdrawalPlan, 0, maxYears),
		TotalTaxesPaid:         decimal.Zero,
		TotalWithdrawals:       decimal.Zero,
	}
	fail := func(year, age int) {
		result.Success = false
		result.FailureYear = &year
		result.FailureAge = &age
	}

	for i := 0; i < maxYears; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		year, age := wc.Year(), wc.Age()
		if !wc.TotalPortfolioValue().IsPositive() {
			pe.logger.Debugf("scenario %s depleted before %d (age %d)", pe.scenario.Name, year, age)
			fail(year, age)
			break
		}

		plan, err := wc.PlanYear(year, age)
		if err != nil {
			return nil, fmt.Errorf("scenario %s year %d: %w", pe.scenario.Name, year, err)
		}
		result.Plans = append(result.Plans, *plan)
		result.TotalTaxesPaid = result.TotalTaxesPaid.Add(plan.TotalTax)
		result.TotalWithdrawals = result.TotalWithdrawals.Add(plan.TotalWithdrawals())

		if plan.Shortfall.IsPositive() && !plan.TotalPortfolioValue.IsPositive() {
			pe.logger.Debugf("scenario %s depleted in %d (age %d), short %s", pe.scenario.Name, year, age, plan.Shortfall.StringFixed(2))
			fail(year, age)
			break
		}
		wc.ApplyGrowth(returns.At(i))
	}

	result.YearsSimulated = len(result.Plans)
	result.FinalPortfolioValue = wc.TotalPortfolioValue()
	return result, nil
}
