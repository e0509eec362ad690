package breakeven

import (
	"context"
	"errors"
	"fmt"
)

// OptimizeMultiDimensional runs one search per target and picks the best
// result for income, longevity and taxes.
func (s *Solver) OptimizeMultiDimensional(ctx context.Context, base OptimizationRequest, targets []OptimizationTarget) (*MultiDimensionalResult, error) {
	if err := base.Constraints.Validate(); err != nil {
		return nil, err
	}
	multi := &MultiDimensionalResult{}
	for _, target := range targets {
		request := base
		request.Target = target
		result, err := s.Optimize(ctx, request)
		if err != nil {
			// A target that does not apply to the scenario is skipped.
			var beErr *BreakEvenError
			if errors.As(err, &beErr) && beErr.Cause == nil {
				continue
			}
			return nil, fmt.Errorf("failed to optimize %s: %w", target, err)
		}
		multi.Results = append(multi.Results, *result)
	}

	for i := range multi.Results {
		r := &multi.Results[i]
		if !r.Success {
			continue
		}
		if multi.BestByIncome == nil || r.LifetimeNetIncome.GreaterThan(multi.BestByIncome.LifetimeNetIncome) {
			multi.BestByIncome = r
		}
		if multi.BestByLongevity == nil || r.YearsFunded > multi.BestByLongevity.YearsFunded ||
			(r.YearsFunded == multi.BestByLongevity.YearsFunded && r.FinalPortfolio.GreaterThan(multi.BestByLongevity.FinalPortfolio)) {
			multi.BestByLongevity = r
		}
		if multi.BestByTaxes == nil || r.LifetimeTaxes.LessThan(multi.BestByTaxes.LifetimeTaxes) {
			multi.BestByTaxes = r
		}
	}
	multi.Recommendations = generateRecommendations(multi)
	return multi, nil
}

// OptimizeAllTargets runs every target against request's scenario.
func (s *Solver) OptimizeAllTargets(ctx context.Context, request OptimizationRequest) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, request, []OptimizationTarget{
		OptimizeTargetIncome,
		OptimizeWithdrawalRate,
		OptimizeSSAge,
		OptimizeStrategy,
		OptimizeRetirementDelay,
	})
}

func generateRecommendations(multi *MultiDimensionalResult) []string {
	var recs []string
	for _, r := range multi.Results {
		if !r.Success {
			continue
		}
		switch r.Target {
		case OptimizeTargetIncome:
			recs = append(recs, fmt.Sprintf("Sustainable Income: up to $%s per year lasts the full horizon",
				r.OptimalTargetIncome.StringFixed(0)))
		case OptimizeWithdrawalRate:
			recs = append(recs, fmt.Sprintf("Sustainable Rate: withdraw up to %s%% of the starting portfolio",
				r.OptimalWithdrawalRate.Shift(2).StringFixed(2)))
		}
	}
	if b := multi.BestByIncome; b != nil && b.IncomeDiffFromBase.IsPositive() {
		recs = append(recs, fmt.Sprintf("Best Income: %s adds $%s of lifetime net income",
			describe(b), b.IncomeDiffFromBase.StringFixed(0)))
	}
	if b := multi.BestByTaxes; b != nil && b.TaxDiffFromBase.IsNegative() {
		recs = append(recs, fmt.Sprintf("Lowest Taxes: %s saves $%s in lifetime taxes",
			describe(b), b.TaxDiffFromBase.Neg().StringFixed(0)))
	}
	if len(recs) == 0 {
		recs = append(recs, "The current plan is already the best of the options evaluated")
	}
	return recs
}

// describe names the optimal setting a result found.
func describe(r *OptimizationResult) string {
	switch {
	case r.OptimalTargetIncome != nil:
		return fmt.Sprintf("a $%s income target", r.OptimalTargetIncome.StringFixed(0))
	case r.OptimalWithdrawalRate != nil:
		return fmt.Sprintf("a %s%% withdrawal rate", r.OptimalWithdrawalRate.Shift(2).StringFixed(2))
	case r.OptimalSSAge != nil:
		return fmt.Sprintf("claiming Social Security at %d", *r.OptimalSSAge)
	case r.OptimalStrategy != "":
		return fmt.Sprintf("the %s strategy", r.OptimalStrategy)
	case r.OptimalDelayYears != nil:
		return fmt.Sprintf("retiring %d year%s later", *r.OptimalDelayYears, plural(*r.OptimalDelayYears))
	}
	return string(r.Target)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
