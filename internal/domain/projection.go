package domain

import (
	"github.com/shopspring/decimal"
)

// WithdrawalResult is the outcome of executing one withdrawal against an account.
type WithdrawalResult struct {
	GrossAmount      decimal.Decimal  `json:"grossAmount"`
	TaxableAmount    decimal.Decimal  `json:"taxableAmount"`
	IncomeType       IncomeType       `json:"incomeType"`
	RemainingBalance decimal.Decimal  `json:"remainingBalance"`
	CostBasisRemoved decimal.Decimal  `json:"costBasisRemoved"`
	CostBasis        *decimal.Decimal `json:"costBasis,omitempty"` // taxable accounts only
}

// AccountInfo is the display snapshot of an account kept with every plan.
type AccountInfo struct {
	ID       string      `json:"id"`
	Nickname string      `json:"nickname,omitempty"`
	Type     AccountType `json:"type"`
}

// Label returns the nickname when present, otherwise the id.
func (a AccountInfo) Label() string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return a.ID
}

// WithdrawalPlan records one simulated year.
type WithdrawalPlan struct {
	Year                int                        `json:"year"`
	Age                 int                        `json:"age"`
	GuaranteedIncome    decimal.Decimal            `json:"guaranteedIncome"`
	WithdrawalNeed      decimal.Decimal            `json:"withdrawalNeed"`
	RMDs                map[string]decimal.Decimal `json:"rmds"`        // account id -> required distribution
	Withdrawals         map[string]decimal.Decimal `json:"withdrawals"` // account id -> gross withdrawn
	Balances            map[string]decimal.Decimal `json:"balances"`    // account id -> balance after withdrawal
	Accounts            []AccountInfo              `json:"accounts"`    // ordered as configured
	OrdinaryIncome      decimal.Decimal            `json:"ordinaryIncome"`
	CapitalGains        decimal.Decimal            `json:"capitalGains"`
	Shortfall           decimal.Decimal            `json:"shortfall"`
	Tax                 TaxResult                  `json:"tax"`
	TotalGrossIncome    decimal.Decimal            `json:"totalGrossIncome"`
	TotalTax            decimal.Decimal            `json:"totalTax"`
	TotalNetIncome      decimal.Decimal            `json:"totalNetIncome"`
	TotalPortfolioValue decimal.Decimal            `json:"totalPortfolioValue"`
	AvoidIRMAA          bool                       `json:"avoidIrmaa"`
}

// TotalWithdrawals sums the gross withdrawals across accounts.
func (p *WithdrawalPlan) TotalWithdrawals() decimal.Decimal {
	total := decimal.Zero
	for _, info := range p.Accounts {
		total = total.Add(p.Withdrawals[info.ID])
	}
	return total
}

// ProjectionResult is the outcome of one multi-year run.
type ProjectionResult struct {
	ScenarioName           string           `json:"scenarioName"`
	Success                bool             `json:"success"`
	FailureYear            *int             `json:"failureYear,omitempty"`
	FailureAge             *int             `json:"failureAge,omitempty"`
	StartYear              int              `json:"startYear"`
	YearsSimulated         int              `json:"yearsSimulated"`
	StartingPortfolioValue decimal.Decimal  `json:"startingPortfolioValue"`
	Plans                  []WithdrawalPlan `json:"plans"`
	FinalPortfolioValue    decimal.Decimal  `json:"finalPortfolioValue"`
	TotalTaxesPaid         decimal.Decimal  `json:"totalTaxesPaid"`
	TotalWithdrawals       decimal.Decimal  `json:"totalWithdrawals"`
}

// Accounts returns the account snapshot from the first plan, if any.
func (r *ProjectionResult) Accounts() []AccountInfo {
	if len(r.Plans) == 0 {
		return nil
	}
	return r.Plans[0].Accounts
}

// MonteCarloResult aggregates many stochastic projection runs.
type MonteCarloResult struct {
	ScenarioName      string            `json:"scenarioName"`
	NumRuns           int               `json:"numRuns"`
	MaxYears          int               `json:"maxYears"`
	MeanReturn        decimal.Decimal   `json:"meanReturn"`
	Volatility        decimal.Decimal   `json:"volatility"`
	SuccessRate       decimal.Decimal   `json:"successRate"` // percent, 0-100
	MedianFinalValue  decimal.Decimal   `json:"medianFinalValue"`
	Percentile10Value decimal.Decimal   `json:"percentile10Value"`
	Percentile90Value decimal.Decimal   `json:"percentile90Value"`
	MedianRun         *ProjectionResult `json:"medianRun"`
	Percentile10Run   *ProjectionResult `json:"percentile10Run"`
	Percentile90Run   *ProjectionResult `json:"percentile90Run"`
}
