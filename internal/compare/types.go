package compare

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the headline metrics of one projection and, for
// alternatives, its differences from the base.
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description,omitempty"`
	Result       *domain.ProjectionResult `json:"-"`

	// Key Metrics
	Success            bool            `json:"success"`
	FailureYear        *int            `json:"failureYear,omitempty"`
	YearsFunded        int             `json:"yearsFunded"`
	FirstYearNetIncome decimal.Decimal `json:"firstYearNetIncome"`
	LifetimeNetIncome  decimal.Decimal `json:"lifetimeNetIncome"`
	FinalPortfolio     decimal.Decimal `json:"finalPortfolio"`
	LifetimeTaxes      decimal.Decimal `json:"lifetimeTaxes"`

	// Comparison to Base
	IncomeDiffFromBase decimal.Decimal `json:"incomeDiffFromBase"`
	IncomePctFromBase  decimal.Decimal `json:"incomePctFromBase"`
	YearsFundedDiff    int             `json:"yearsFundedDiff"`
	FinalDiffFromBase  decimal.Decimal `json:"finalDiffFromBase"`
	TaxDiffFromBase    decimal.Decimal `json:"taxDiffFromBase"`

	// Scenario specifics for display
	Strategy   string `json:"strategy,omitempty"`
	SSClaimAge int    `json:"ssClaimAge,omitempty"`
	StartYear  int    `json:"startYear"`
}

// ComparisonSet is a base scenario and its alternatives.
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// Projections returns the base and alternative projections in order, for
// the year-level report formatters.
func (cs *ComparisonSet) Projections() []*domain.ProjectionResult {
	out := make([]*domain.ProjectionResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil && cs.BaseResult.Result != nil {
		out = append(out, cs.BaseResult.Result)
	}
	for _, alt := range cs.AlternativeResults {
		if alt.Result != nil {
			out = append(out, alt.Result)
		}
	}
	return out
}

// MetricsCalculator extracts comparison metrics from projections.
type MetricsCalculator struct{}

func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the metrics for one projection of scenario.
func (mc *MetricsCalculator) CalculateMetrics(res *domain.ProjectionResult, scenario *domain.Scenario) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:      res.ScenarioName,
		Result:            res,
		Success:           res.Success,
		FailureYear:       res.FailureYear,
		YearsFunded:       yearsFunded(res),
		LifetimeNetIncome: decimal.Zero,
		FinalPortfolio:    res.FinalPortfolioValue,
		LifetimeTaxes:     res.TotalTaxesPaid,
		StartYear:         res.StartYear,
	}
	for i, p := range res.Plans {
		if i == 0 {
			result.FirstYearNetIncome = p.TotalNetIncome
		}
		result.LifetimeNetIncome = result.LifetimeNetIncome.Add(p.TotalNetIncome)
	}

	if scenario != nil {
		if scenario.Policy != nil {
			result.Strategy = string(scenario.Policy.Strategy())
		}
		if scenario.SocialSecurity != nil {
			result.SSClaimAge = scenario.SocialSecurity.ClaimingAge
		}
	}
	return result
}

// yearsFunded counts the years whose need was met in full.
func yearsFunded(res *domain.ProjectionResult) int {
	if res.Success || res.FailureYear == nil {
		return res.YearsSimulated
	}
	return *res.FailureYear - res.StartYear
}

// CalculateComparison fills scenario's differences from base.
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.IncomeDiffFromBase = scenario.LifetimeNetIncome.Sub(base.LifetimeNetIncome)
	if !base.LifetimeNetIncome.IsZero() {
		scenario.IncomePctFromBase = scenario.IncomeDiffFromBase.
			Div(base.LifetimeNetIncome).
			Mul(decimal.NewFromInt(100))
	}
	scenario.YearsFundedDiff = scenario.YearsFunded - base.YearsFunded
	scenario.FinalDiffFromBase = scenario.FinalPortfolio.Sub(base.FinalPortfolio)
	scenario.TaxDiffFromBase = scenario.LifetimeTaxes.Sub(base.LifetimeTaxes)
	return scenario
}

// GenerateRecommendations names the alternatives that beat the base on
// income, longevity, ending wealth and taxes.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}
	base := compSet.BaseResult

	bestIncome := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.LifetimeNetIncome.GreaterThan(bestIncome.LifetimeNetIncome) {
			bestIncome = alt
		}
	}
	if bestIncome != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Best Income: %s provides $%s more lifetime net income than the base scenario",
			bestIncome.ScenarioName, bestIncome.LifetimeNetIncome.Sub(base.LifetimeNetIncome).StringFixed(0)))
	}

	bestLongevity := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.YearsFunded > bestLongevity.YearsFunded {
			bestLongevity = alt
		}
	}
	if bestLongevity != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Best Longevity: %s funds %d more years", bestLongevity.ScenarioName, bestLongevity.YearsFunded-base.YearsFunded))
	}

	bestFinal := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Success && alt.FinalPortfolio.GreaterThan(bestFinal.FinalPortfolio) {
			bestFinal = alt
		}
	}
	if bestFinal != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Largest Legacy: %s ends with $%s more", bestFinal.ScenarioName, bestFinal.FinalPortfolio.Sub(base.FinalPortfolio).StringFixed(0)))
	}

	lowestTax := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.LifetimeTaxes.LessThan(lowestTax.LifetimeTaxes) {
			lowestTax = alt
		}
	}
	if lowestTax != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Lowest Taxes: %s saves $%s in lifetime taxes", lowestTax.ScenarioName, base.LifetimeTaxes.Sub(lowestTax.LifetimeTaxes).StringFixed(0)))
	}

	return recommendations
}
