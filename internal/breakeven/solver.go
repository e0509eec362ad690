package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/compare"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/transform"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	two           = decimal.NewFromInt(2)
	rateTolerance = decimal.RequireFromString("0.0001")
)

// Solver searches scenario parameters for sustainable or best outcomes.
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Metrics    *compare.MetricsCalculator
	Options    SolverOptions
}

func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Metrics:    compare.NewMetricsCalculator(),
		Options:    options,
	}
}

func NewDefaultSolver() *Solver {
	return NewSolver(calculation.NewCalculationEngine(), DefaultSolverOptions())
}

// Optimize runs the search named by request.Target.
func (s *Solver) Optimize(ctx context.Context, request OptimizationRequest) (*OptimizationResult, error) {
	if request.BaseScenario == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "base scenario is required"}
	}
	if request.Config == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "configuration is required"}
	}
	if err := request.Constraints.Validate(); err != nil {
		return nil, err
	}
	if request.MaxIterations <= 0 {
		request.MaxIterations = s.Options.MaxIterations
	}
	if !request.Tolerance.IsPositive() {
		request.Tolerance = s.Options.Tolerance
	}
	if request.Goal == "" {
		request.Goal = GoalMaximizeIncome
	}

	base, err := s.project(ctx, request, request.BaseScenario)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "base projection failed", Cause: err}
	}

	var result *OptimizationResult
	switch request.Target {
	case OptimizeTargetIncome:
		result, err = s.optimizeTargetIncome(ctx, request)
	case OptimizeWithdrawalRate:
		result, err = s.optimizeWithdrawalRate(ctx, request)
	case OptimizeSSAge:
		result, err = s.optimizeSSAge(ctx, request)
	case OptimizeStrategy:
		result, err = s.optimizeStrategy(ctx, request)
	case OptimizeRetirementDelay:
		result, err = s.optimizeRetirementDelay(ctx, request)
	default:
		return nil, &BreakEvenError{Operation: "optimize", Message: fmt.Sprintf("unknown optimization target: %s", request.Target)}
	}
	if err != nil {
		return nil, err
	}

	result.Request = request
	result.Target = request.Target
	result.BaseProjection = base.Result
	result.IncomeDiffFromBase = result.LifetimeNetIncome.Sub(base.LifetimeNetIncome)
	result.TaxDiffFromBase = result.LifetimeTaxes.Sub(base.LifetimeTaxes)
	return result, nil
}

func (s *Solver) project(ctx context.Context, request OptimizationRequest, scenario *domain.Scenario) (compare.ComparisonResult, error) {
	res, err := s.CalcEngine.RunProjection(ctx, scenario, request.Config.Assumptions.MaxYears,
		calculation.ProjectionSchedule(request.Config.Assumptions))
	if err != nil {
		return compare.ComparisonResult{}, err
	}
	return s.Metrics.CalculateMetrics(res, scenario), nil
}

// projectWith applies t to the base scenario and projects the result.
func (s *Solver) projectWith(ctx context.Context, request OptimizationRequest, t transform.ScenarioTransform) (compare.ComparisonResult, error) {
	modified, err := transform.ApplyTransforms(request.BaseScenario, []transform.ScenarioTransform{t})
	if err != nil {
		return compare.ComparisonResult{}, err
	}
	return s.project(ctx, request, modified)
}

func (s *Solver) optimizeTargetIncome(ctx context.Context, request OptimizationRequest) (*OptimizationResult, error) {
	lo := decimal.Zero
	if request.Constraints.MinIncome != nil {
		lo = *request.Constraints.MinIncome
	}
	hi := totalBalance(request.BaseScenario)
	if request.Constraints.MaxIncome != nil {
		hi = *request.Constraints.MaxIncome
	}

	try := func(amount decimal.Decimal) (compare.ComparisonResult, error) {
		return s.projectWith(ctx, request, &transform.SetTargetIncome{Amount: amount.Round(0)})
	}
	best, found, iterations, converged, err := s.bisect(ctx, lo, hi, request.Tolerance, request.MaxIterations, try)
	if err != nil {
		return nil, err
	}

	result := &OptimizationResult{Goal: request.Goal, Iterations: iterations, Success: found}
	if !found {
		result.ConvergenceInfo = fmt.Sprintf("no sustainable target income at or above $%s", lo.StringFixed(0))
		return result, nil
	}
	amount := best.amount.Round(0)
	result.OptimalTargetIncome = &amount
	fillMetrics(result, best.metrics)
	result.ConvergenceInfo = convergenceInfo(converged, iterations, "$"+request.Tolerance.StringFixed(0))
	return result, nil
}

func (s *Solver) optimizeWithdrawalRate(ctx context.Context, request OptimizationRequest) (*OptimizationResult, error) {
	lo, hi := defaultMinRate, defaultMaxRate
	if request.Constraints.MinRate != nil {
		lo = *request.Constraints.MinRate
	}
	if request.Constraints.MaxRate != nil {
		hi = *request.Constraints.MaxRate
	}

	try := func(rate decimal.Decimal) (compare.ComparisonResult, error) {
		return s.projectWith(ctx, request, &transform.SetWithdrawalRate{Rate: rate.Round(4)})
	}
	best, found, iterations, converged, err := s.bisect(ctx, lo, hi, rateTolerance, request.MaxIterations, try)
	if err != nil {
		return nil, err
	}

	result := &OptimizationResult{Goal: request.Goal, Iterations: iterations, Success: found}
	if !found {
		result.ConvergenceInfo = fmt.Sprintf("no sustainable withdrawal rate at or above %s%%", lo.Shift(2).StringFixed(2))
		return result, nil
	}
	rate := best.amount.Round(4)
	result.OptimalWithdrawalRate = &rate
	fillMetrics(result, best.metrics)
	result.ConvergenceInfo = convergenceInfo(converged, iterations, "0.01%")
	return result, nil
}

type candidate struct {
	amount  decimal.Decimal
	metrics compare.ComparisonResult
}

// bisect finds the largest value in [lo, hi] whose projection is
// successful, assuming success is monotone in the value.
func (s *Solver) bisect(
	ctx context.Context,
	lo, hi, tolerance decimal.Decimal,
	maxIterations int,
	try func(decimal.Decimal) (compare.ComparisonResult, error),
) (best candidate, found bool, iterations int, converged bool, err error) {
	low, err := try(lo)
	if err != nil {
		return best, false, 1, false, err
	}
	iterations = 1
	if !low.Success {
		return best, false, iterations, true, nil
	}
	best = candidate{amount: lo, metrics: low}

	high, err := try(hi)
	if err != nil {
		return best, true, iterations, false, err
	}
	iterations++
	if high.Success {
		return candidate{amount: hi, metrics: high}, true, iterations, true, nil
	}

	for iterations < maxIterations {
		if hi.Sub(lo).LessThanOrEqual(tolerance) {
			return best, true, iterations, true, nil
		}
		if err := ctx.Err(); err != nil {
			return best, true, iterations, false, err
		}
		mid := lo.Add(hi).Div(two)
		m, err := try(mid)
		if err != nil {
			return best, true, iterations, false, err
		}
		iterations++
		if m.Success {
			lo = mid
			best = candidate{amount: mid, metrics: m}
		} else {
			hi = mid
		}
	}
	return best, true, iterations, hi.Sub(lo).LessThanOrEqual(tolerance), nil
}

func (s *Solver) optimizeSSAge(ctx context.Context, request OptimizationRequest) (*OptimizationResult, error) {
	if request.BaseScenario.SocialSecurity == nil {
		return nil, &BreakEvenError{Operation: "optimize_ss_age", Message: "scenario has no social security benefit"}
	}
	minAge, maxAge := 62, 70
	if request.Constraints.MinSSAge != nil {
		minAge = *request.Constraints.MinSSAge
	}
	if request.Constraints.MaxSSAge != nil {
		maxAge = *request.Constraints.MaxSSAge
	}

	var best *compare.ComparisonResult
	bestAge, iterations := 0, 0
	for age := minAge; age <= maxAge; age++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := s.projectWith(ctx, request, &transform.DelaySSClaim{NewAge: age})
		if err != nil {
			return nil, err
		}
		iterations++
		if best == nil || isBetter(m, *best, request.Goal) {
			best, bestAge = &m, age
		}
	}

	result := &OptimizationResult{Goal: request.Goal, Iterations: iterations, Success: best != nil}
	if best != nil {
		result.OptimalSSAge = &bestAge
		fillMetrics(result, *best)
	}
	result.ConvergenceInfo = fmt.Sprintf("evaluated claiming ages %d-%d", minAge, maxAge)
	return result, nil
}

// Strategies is the search space for OptimizeStrategy.
var Strategies = []domain.SequencingStrategy{
	domain.StrategyTaxableFirst,
	domain.StrategyTraditionalFirst,
	domain.StrategyRothFirst,
	domain.StrategyProRata,
}

func (s *Solver) optimizeStrategy(ctx context.Context, request OptimizationRequest) (*OptimizationResult, error) {
	var best *compare.ComparisonResult
	var bestStrategy domain.SequencingStrategy
	for _, strategy := range Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := s.projectWith(ctx, request, &transform.SetSequencing{Strategy: strategy})
		if err != nil {
			return nil, err
		}
		if best == nil || isBetter(m, *best, request.Goal) {
			best, bestStrategy = &m, strategy
		}
	}

	result := &OptimizationResult{
		Goal:            request.Goal,
		Iterations:      len(Strategies),
		Success:         true,
		OptimalStrategy: string(bestStrategy),
		ConvergenceInfo: fmt.Sprintf("evaluated %d strategies", len(Strategies)),
	}
	fillMetrics(result, *best)
	return result, nil
}

func (s *Solver) optimizeRetirementDelay(ctx context.Context, request OptimizationRequest) (*OptimizationResult, error) {
	maxDelay := defaultMaxDelayYears
	if request.Constraints.MaxDelayYears != nil {
		maxDelay = *request.Constraints.MaxDelayYears
	}

	best, err := s.project(ctx, request, request.BaseScenario)
	if err != nil {
		return nil, err
	}
	bestDelay := 0
	for years := 1; years <= maxDelay; years++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := s.projectWith(ctx, request, &transform.PostponeRetirement{Years: years})
		if err != nil {
			return nil, err
		}
		if isBetter(m, best, request.Goal) {
			best, bestDelay = m, years
		}
	}

	result := &OptimizationResult{
		Goal:              request.Goal,
		Iterations:        maxDelay + 1,
		Success:           true,
		OptimalDelayYears: &bestDelay,
		ConvergenceInfo:   fmt.Sprintf("evaluated delays of 0-%d years", maxDelay),
	}
	fillMetrics(result, best)
	return result, nil
}

// isBetter ranks a over b for goal. Ties keep b so the earliest candidate
// in the search order wins.
func isBetter(a, b compare.ComparisonResult, goal OptimizationGoal) bool {
	switch goal {
	case GoalMaximizeLongevity:
		if a.YearsFunded != b.YearsFunded {
			return a.YearsFunded > b.YearsFunded
		}
		return a.FinalPortfolio.GreaterThan(b.FinalPortfolio)
	case GoalMaximizeLegacy:
		return a.FinalPortfolio.GreaterThan(b.FinalPortfolio)
	case GoalMinimizeTaxes:
		if a.Success != b.Success {
			return a.Success
		}
		return a.LifetimeTaxes.LessThan(b.LifetimeTaxes)
	default:
		return a.LifetimeNetIncome.GreaterThan(b.LifetimeNetIncome)
	}
}

func fillMetrics(result *OptimizationResult, m compare.ComparisonResult) {
	result.Projection = m.Result
	result.FirstYearNetIncome = m.FirstYearNetIncome
	result.LifetimeNetIncome = m.LifetimeNetIncome
	result.YearsFunded = m.YearsFunded
	result.FinalPortfolio = m.FinalPortfolio
	result.LifetimeTaxes = m.LifetimeTaxes
}

func convergenceInfo(converged bool, iterations int, tolerance string) string {
	if converged {
		return fmt.Sprintf("converged within %s after %d iterations", tolerance, iterations)
	}
	return fmt.Sprintf("stopped after %d iterations without reaching %s", iterations, tolerance)
}

func totalBalance(s *domain.Scenario) decimal.Decimal {
	balances := make([]decimal.Decimal, len(s.Accounts))
	for i, a := range s.Accounts {
		balances[i] = a.Balance
	}
	return money.Sum(balances...)
}
