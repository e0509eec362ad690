package breakeven

import (
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget names the scenario parameter being searched.
type OptimizationTarget string

const (
	OptimizeTargetIncome    OptimizationTarget = "target_income"
	OptimizeWithdrawalRate  OptimizationTarget = "withdrawal_rate"
	OptimizeSSAge           OptimizationTarget = "ss_age"
	OptimizeStrategy        OptimizationTarget = "strategy"
	OptimizeRetirementDelay OptimizationTarget = "retirement_delay"
)

// OptimizationGoal is the outcome a grid search ranks candidates by.
// Income and rate targets always search for the largest sustainable value.
type OptimizationGoal string

const (
	GoalMaximizeIncome    OptimizationGoal = "maximize_income"    // lifetime net income
	GoalMaximizeLongevity OptimizationGoal = "maximize_longevity" // years funded, then final value
	GoalMaximizeLegacy    OptimizationGoal = "maximize_legacy"    // final portfolio value
	GoalMinimizeTaxes     OptimizationGoal = "minimize_taxes"     // lifetime federal tax
)

// ParseTarget and ParseGoal accept the string forms used on the command line.
func ParseTarget(s string) (OptimizationTarget, bool) {
	switch t := OptimizationTarget(s); t {
	case OptimizeTargetIncome, OptimizeWithdrawalRate, OptimizeSSAge, OptimizeStrategy, OptimizeRetirementDelay:
		return t, true
	}
	return "", false
}

func ParseGoal(s string) (OptimizationGoal, bool) {
	switch g := OptimizationGoal(s); g {
	case GoalMaximizeIncome, GoalMaximizeLongevity, GoalMaximizeLegacy, GoalMinimizeTaxes:
		return g, true
	}
	return "", false
}

// Constraints bound the search. Nil fields use the solver defaults.
type Constraints struct {
	MinIncome *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`

	MinRate *decimal.Decimal `json:"min_rate,omitempty"`
	MaxRate *decimal.Decimal `json:"max_rate,omitempty"`

	MinSSAge *int `json:"min_ss_age,omitempty"`
	MaxSSAge *int `json:"max_ss_age,omitempty"`

	MaxDelayYears *int `json:"max_delay_years,omitempty"`
}

var (
	defaultMinRate = decimal.RequireFromString("0.01")
	defaultMaxRate = decimal.RequireFromString("0.15")
	maxRate        = decimal.RequireFromString("0.20")
)

const (
	defaultMaxDelayYears = 5
	maxDelayYears        = 10
)

// OptimizationRequest is one search over one target.
type OptimizationRequest struct {
	BaseScenario  *domain.Scenario
	Config        *domain.Configuration
	Target        OptimizationTarget
	Goal          OptimizationGoal
	Constraints   Constraints
	MaxIterations int
	Tolerance     decimal.Decimal // dollars for income searches
}

// OptimizationResult is the best candidate a search found and its outcome.
type OptimizationResult struct {
	Request         OptimizationRequest `json:"-"`
	Target          OptimizationTarget  `json:"target"`
	Goal            OptimizationGoal    `json:"goal,omitempty"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	OptimalTargetIncome   *decimal.Decimal `json:"optimal_target_income,omitempty"`
	OptimalWithdrawalRate *decimal.Decimal `json:"optimal_withdrawal_rate,omitempty"`
	OptimalSSAge          *int             `json:"optimal_ss_age,omitempty"`
	OptimalStrategy       string           `json:"optimal_strategy,omitempty"`
	OptimalDelayYears     *int             `json:"optimal_delay_years,omitempty"`

	Projection         *domain.ProjectionResult `json:"-"`
	FirstYearNetIncome decimal.Decimal          `json:"first_year_net_income"`
	LifetimeNetIncome  decimal.Decimal          `json:"lifetime_net_income"`
	YearsFunded        int                      `json:"years_funded"`
	FinalPortfolio     decimal.Decimal          `json:"final_portfolio"`
	LifetimeTaxes      decimal.Decimal          `json:"lifetime_taxes"`

	BaseProjection     *domain.ProjectionResult `json:"-"`
	IncomeDiffFromBase decimal.Decimal          `json:"income_diff_from_base"`
	TaxDiffFromBase    decimal.Decimal          `json:"tax_diff_from_base"`
}

// MultiDimensionalResult collects several searches and their winners.
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	BestByIncome    *OptimizationResult  `json:"best_by_income,omitempty"`
	BestByLongevity *OptimizationResult  `json:"best_by_longevity,omitempty"`
	BestByTaxes     *OptimizationResult  `json:"best_by_taxes,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the search.
type SolverOptions struct {
	Tolerance     decimal.Decimal
	MaxIterations int
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(100),
		MaxIterations: 40,
	}
}

// Validate checks that every range is ordered and in bounds.
func (c *Constraints) Validate() error {
	if c.MinIncome != nil && c.MinIncome.IsNegative() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_income cannot be negative"}
	}
	if c.MinIncome != nil && c.MaxIncome != nil && c.MinIncome.GreaterThan(*c.MaxIncome) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_income cannot be greater than max_income"}
	}
	if c.MinRate != nil && !c.MinRate.IsPositive() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_rate must be positive"}
	}
	if c.MinRate != nil && c.MaxRate != nil && c.MinRate.GreaterThan(*c.MaxRate) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_rate cannot be greater than max_rate"}
	}
	if c.MaxRate != nil && c.MaxRate.GreaterThan(maxRate) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "max_rate cannot exceed 20%"}
	}
	if c.MinSSAge != nil && c.MaxSSAge != nil && *c.MinSSAge > *c.MaxSSAge {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_ss_age cannot be greater than max_ss_age"}
	}
	for _, age := range []*int{c.MinSSAge, c.MaxSSAge} {
		if age != nil && (*age < 62 || *age > 70) {
			return &BreakEvenError{Operation: "validate_constraints", Message: "ss_age must be between 62 and 70"}
		}
	}
	if c.MaxDelayYears != nil && (*c.MaxDelayYears < 0 || *c.MaxDelayYears > maxDelayYears) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "max_delay_years must be between 0 and 10"}
	}
	return nil
}

// BreakEvenError is returned by the solver.
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
