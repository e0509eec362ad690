package breakeven

import (
	"context"
	"strings"
	"testing"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *domain.Configuration {
	return &domain.Configuration{
		Scenarios: []domain.Scenario{
			{
				Name:      "solo",
				StartYear: 2025,
				Profile:   &domain.UserProfile{BirthYear: 1960, RetirementAge: 65, FilingStatus: domain.FilingSingle},
				Accounts: []domain.AccountDefinition{
					{ID: "ira", Type: domain.AccountTraditional, Balance: decimal.NewFromInt(500000)},
				},
				Policy: &domain.WithdrawalPolicy{TargetNetIncome: decPtr("30000")},
			},
			{
				Name:      "mixed",
				StartYear: 2025,
				Profile:   &domain.UserProfile{BirthYear: 1960, RetirementAge: 65, FilingStatus: domain.FilingSingle},
				Accounts: []domain.AccountDefinition{
					{ID: "brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(200000), CostBasis: decPtr("120000")},
					{ID: "ira", Type: domain.AccountTraditional, Balance: decimal.NewFromInt(400000)},
					{ID: "roth", Type: domain.AccountRoth, Balance: decimal.NewFromInt(100000)},
				},
				SocialSecurity: &domain.SSAIncome{FRAMonthlyBenefit: decimal.NewFromInt(2200), ClaimingAge: 65},
				Policy:         &domain.WithdrawalPolicy{TargetNetIncome: decPtr("55000")},
			},
		},
		Assumptions: domain.Assumptions{MaxYears: 20, ReturnRate: decimal.RequireFromString("0.04")},
	}
}

func request(t *testing.T, name string, target OptimizationTarget) OptimizationRequest {
	t.Helper()
	cfg := testConfig()
	scenario, err := cfg.ScenarioByName(name)
	require.NoError(t, err)
	return OptimizationRequest{BaseScenario: scenario, Config: cfg, Target: target}
}

func TestNewSolver(t *testing.T) {
	calc := calculation.NewCalculationEngine()
	solver := NewSolver(calc, DefaultSolverOptions())
	assert.Same(t, calc, solver.CalcEngine)
	assert.NotNil(t, solver.Metrics)

	def := NewDefaultSolver()
	assert.NotNil(t, def.CalcEngine)
	assert.Equal(t, 40, def.Options.MaxIterations)
}

func TestSolver_Optimize_InvalidRequests(t *testing.T) {
	solver := NewDefaultSolver()
	ctx := context.Background()

	_, err := solver.Optimize(ctx, OptimizationRequest{Config: testConfig(), Target: OptimizeTargetIncome})
	assert.ErrorContains(t, err, "base scenario is required")

	req := request(t, "solo", OptimizeTargetIncome)
	req.Config = nil
	_, err = solver.Optimize(ctx, req)
	assert.ErrorContains(t, err, "configuration is required")

	req = request(t, "solo", OptimizeTargetIncome)
	req.Constraints = Constraints{MinSSAge: intPtr(70), MaxSSAge: intPtr(62)}
	_, err = solver.Optimize(ctx, req)
	assert.ErrorContains(t, err, "min_ss_age cannot be greater than max_ss_age")

	_, err = solver.Optimize(ctx, request(t, "solo", "pension_lump_sum"))
	assert.ErrorContains(t, err, "unknown optimization target")

	_, err = solver.Optimize(ctx, request(t, "solo", OptimizeSSAge))
	assert.ErrorContains(t, err, "no social security benefit")
}

func TestSolver_OptimizeTargetIncome(t *testing.T) {
	solver := NewDefaultSolver()
	req := request(t, "solo", OptimizeTargetIncome)

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success, result.ConvergenceInfo)
	require.NotNil(t, result.OptimalTargetIncome)

	income := *result.OptimalTargetIncome
	assert.True(t, income.GreaterThan(decimal.NewFromInt(25000)), income.String())
	assert.True(t, income.LessThan(decimal.NewFromInt(40000)), income.String())
	assert.Contains(t, result.ConvergenceInfo, "converged")
	assert.Equal(t, OptimizeTargetIncome, result.Target)
	assert.Equal(t, GoalMaximizeIncome, result.Goal)

	require.NotNil(t, result.Projection)
	assert.True(t, result.Projection.Success)
	assert.Equal(t, 20, result.YearsFunded)
	assert.True(t, result.IncomeDiffFromBase.IsPositive(), "base target is below the sustainable maximum")

	over, err := transform.ApplyTransforms(req.BaseScenario, []transform.ScenarioTransform{
		&transform.SetTargetIncome{Amount: income.Add(decimal.NewFromInt(1000))},
	})
	require.NoError(t, err)
	res, err := solver.CalcEngine.RunProjection(context.Background(), over, 20, calculation.ProjectionSchedule(req.Config.Assumptions))
	require.NoError(t, err)
	assert.False(t, res.Success, "spending more than the solution should deplete")
}

func TestSolver_OptimizeTargetIncome_NoneSustainable(t *testing.T) {
	solver := NewDefaultSolver()
	req := request(t, "solo", OptimizeTargetIncome)
	req.Constraints = Constraints{MinIncome: decPtr("400000")}

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.OptimalTargetIncome)
	assert.Contains(t, result.ConvergenceInfo, "no sustainable target income")
}

func TestSolver_OptimizeTargetIncome_UpperBoundSustainable(t *testing.T) {
	solver := NewDefaultSolver()
	req := request(t, "solo", OptimizeTargetIncome)
	req.Constraints = Constraints{MaxIncome: decPtr("10000")}

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.OptimalTargetIncome.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 2, result.Iterations)
}

func TestSolver_OptimizeWithdrawalRate(t *testing.T) {
	solver := NewDefaultSolver()
	result, err := solver.Optimize(context.Background(), request(t, "solo", OptimizeWithdrawalRate))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.OptimalWithdrawalRate)

	rate := *result.OptimalWithdrawalRate
	assert.True(t, rate.GreaterThan(decimal.RequireFromString("0.04")), rate.String())
	assert.True(t, rate.LessThan(decimal.RequireFromString("0.09")), rate.String())
	assert.True(t, result.Projection.Success)
}

func TestSolver_OptimizeSSAge(t *testing.T) {
	solver := NewDefaultSolver()
	req := request(t, "mixed", OptimizeSSAge)
	req.Goal = GoalMaximizeLegacy

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.OptimalSSAge)
	assert.GreaterOrEqual(t, *result.OptimalSSAge, 62)
	assert.LessOrEqual(t, *result.OptimalSSAge, 70)
	assert.Equal(t, 9, result.Iterations)

	req.Constraints = Constraints{MinSSAge: intPtr(66), MaxSSAge: intPtr(67)}
	result, err = solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Iterations)
	assert.Contains(t, []int{66, 67}, *result.OptimalSSAge)
}

func TestSolver_OptimizeStrategy(t *testing.T) {
	solver := NewDefaultSolver()
	req := request(t, "mixed", OptimizeStrategy)
	req.Goal = GoalMinimizeTaxes

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, len(Strategies), result.Iterations)
	assert.Contains(t, Strategies, domain.SequencingStrategy(result.OptimalStrategy))
	assert.False(t, result.TaxDiffFromBase.IsPositive(), "the chosen strategy pays no more tax than the base")
}

func TestSolver_OptimizeRetirementDelay(t *testing.T) {
	solver := NewDefaultSolver()
	req := request(t, "mixed", OptimizeRetirementDelay)
	req.Goal = GoalMaximizeLongevity
	req.Constraints = Constraints{MaxDelayYears: intPtr(2)}

	result, err := solver.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.OptimalDelayYears)
	assert.Equal(t, 3, result.Iterations)
	assert.GreaterOrEqual(t, *result.OptimalDelayYears, 0)
	assert.LessOrEqual(t, *result.OptimalDelayYears, 2)
	assert.Equal(t, 2025+*result.OptimalDelayYears, result.Projection.StartYear)
}

func TestSolver_Optimize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver().Optimize(ctx, request(t, "solo", OptimizeTargetIncome))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsBetter(t *testing.T) {
	solver := NewDefaultSolver()
	ctx := context.Background()
	cfg := testConfig()
	lean, err := solver.project(ctx, OptimizationRequest{Config: cfg}, &cfg.Scenarios[0])
	require.NoError(t, err)

	rich := lean
	rich.LifetimeNetIncome = lean.LifetimeNetIncome.Add(decimal.NewFromInt(1))
	rich.LifetimeTaxes = lean.LifetimeTaxes.Add(decimal.NewFromInt(1))

	assert.True(t, isBetter(rich, lean, GoalMaximizeIncome))
	assert.False(t, isBetter(rich, lean, GoalMinimizeTaxes))
	assert.True(t, isBetter(lean, rich, GoalMinimizeTaxes))
	assert.False(t, isBetter(lean, lean, GoalMaximizeLegacy), "ties keep the incumbent")

	longer := lean
	longer.YearsFunded++
	assert.True(t, isBetter(longer, lean, GoalMaximizeLongevity))
}

func TestOptimizeAllTargets(t *testing.T) {
	solver := NewDefaultSolver()
	multi, err := solver.OptimizeAllTargets(context.Background(), request(t, "solo", ""))
	require.NoError(t, err)

	// ss_age does not apply to a scenario without social security.
	require.Len(t, multi.Results, 4)
	targets := make([]OptimizationTarget, 0, len(multi.Results))
	for _, r := range multi.Results {
		targets = append(targets, r.Target)
	}
	assert.Equal(t, []OptimizationTarget{OptimizeTargetIncome, OptimizeWithdrawalRate, OptimizeStrategy, OptimizeRetirementDelay}, targets)

	require.NotNil(t, multi.BestByIncome)
	require.NotNil(t, multi.BestByLongevity)
	require.NotNil(t, multi.BestByTaxes)
	require.NotEmpty(t, multi.Recommendations)
	assert.True(t, strings.HasPrefix(multi.Recommendations[0], "Sustainable Income:"))
}

func TestOptimizeMultiDimensional_InvalidConstraints(t *testing.T) {
	req := request(t, "mixed", "")
	req.Constraints = Constraints{MaxDelayYears: intPtr(-1)}
	_, err := NewDefaultSolver().OptimizeMultiDimensional(context.Background(), req, []OptimizationTarget{OptimizeRetirementDelay})
	assert.ErrorContains(t, err, "max_delay_years")
}

func TestTotalBalance(t *testing.T) {
	cfg := testConfig()
	assert.True(t, totalBalance(&cfg.Scenarios[1]).Equal(decimal.NewFromInt(700000)))
	assert.True(t, totalBalance(&domain.Scenario{}).IsZero())
}
