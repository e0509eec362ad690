package calculation

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/sequencing"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// shortfallTolerance is the largest unmet need still treated as fully funded.
var shortfallTolerance = money.MustParse("0.005")

// WithdrawalCoordinator plans and executes one simulated year at a time.
// It owns the account set for the duration of a run; nothing else may
// touch the accounts while it is in use.
type WithdrawalCoordinator struct {
	money    money.Context
	profile  domain.UserProfile
	policy   domain.WithdrawalPolicy
	accounts []*Account
	strategy sequencing.SequencingStrategy
	taxCalc  *FederalTaxCalculator
	ssCalc   *SocialSecurityCalculator

	initialPortfolio decimal.Decimal
	yearsElapsed     int
	year             int
	age              int

	history []domain.WithdrawalPlan
	logger  Logger
}

// NewWithdrawalCoordinator takes ownership of accounts, which are drawn in
// the given order wherever a strategy does not reorder them. ssa may be nil.
func NewWithdrawalCoordinator(
	accounts []*Account,
	profile domain.UserProfile,
	policy domain.WithdrawalPolicy,
	ssa *domain.SSAIncome,
	startYear int,
	taxCalc *FederalTaxCalculator,
	m money.Context,
) (*WithdrawalCoordinator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid withdrawal policy: %w", err)
	}
	if len(accounts) == 0 {
		return nil, domain.ErrNoAccounts
	}
	strategy, err := sequencing.CreateStrategy(policy.Strategy())
	if err != nil {
		return nil, err
	}
	if taxCalc == nil {
		taxCalc = NewFederalTaxCalculator2024()
	}

	wc := &WithdrawalCoordinator{
		money:    m,
		profile:  profile,
		policy:   policy,
		accounts: accounts,
		strategy: strategy,
		taxCalc:  taxCalc,
		year:     startYear,
		age:      startYear - profile.BirthYear,
		logger:   NopLogger{},
	}
	if ssa != nil {
		wc.ssCalc = NewSocialSecurityCalculator(*ssa, m)
	}
	wc.initialPortfolio = wc.TotalPortfolioValue()
	return wc, nil
}

// SetLogger sets the logger; nil restores the no-op logger.
func (wc *WithdrawalCoordinator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	wc.logger = l
}

// Year and Age are the counters for the next year to plan.
func (wc *WithdrawalCoordinator) Year() int { return wc.year }
func (wc *WithdrawalCoordinator) Age() int  { return wc.age }

// Accounts exposes the live accounts in configured order.
func (wc *WithdrawalCoordinator) Accounts() []*Account { return wc.accounts }

// History returns a copy of the plans recorded so far.
func (wc *WithdrawalCoordinator) History() []domain.WithdrawalPlan {
	return append([]domain.WithdrawalPlan(nil), wc.history...)
}

// TotalPortfolioValue sums all live balances.
func (wc *WithdrawalCoordinator) TotalPortfolioValue() decimal.Decimal {
	balances := make([]decimal.Decimal, len(wc.accounts))
	for i, a := range wc.accounts {
		balances[i] = a.Balance()
	}
	return money.Sum(balances...)
}

// GuaranteedIncome is the Social Security benefit received at age.
func (wc *WithdrawalCoordinator) GuaranteedIncome(age int) decimal.Decimal {
	if wc.ssCalc == nil {
		return decimal.Zero
	}
	return wc.ssCalc.BenefitAtAge(age)
}

// WithdrawalNeed returns the amount to withdraw from the portfolio this
// year given guaranteedIncome already received. The target income (or
// withdrawal rate applied to the starting portfolio) is indexed by the
// years elapsed in this coordinator, then the result is raised to cover
// the indexed minimum income floor.
func (wc *WithdrawalCoordinator) WithdrawalNeed(guaranteedIncome decimal.Decimal) decimal.Decimal {
	p := wc.policy
	need := decimal.Zero

	var base *decimal.Decimal
	switch {
	case p.TargetNetIncome != nil:
		base = p.TargetNetIncome
	case p.WithdrawalRate != nil:
		amount := wc.initialPortfolio.Mul(*p.WithdrawalRate)
		base = &amount
	}
	if base != nil {
		target := *base
		if p.InflationAdjust {
			target = target.Mul(wc.money.Compound(p.InflationRate, wc.yearsElapsed))
		}
		need = money.Floor0(target.Sub(guaranteedIncome))
	}

	if p.MinRequiredIncome != nil {
		floor := *p.MinRequiredIncome
		if p.InflationAdjust {
			floor = floor.Mul(wc.money.Compound(p.MinIncomeInflation(), wc.yearsElapsed))
		}
		need = money.Max(need, money.Floor0(floor.Sub(guaranteedIncome)))
	}
	return wc.money.Round(need)
}

// PlanYear plans and executes the withdrawals for one year, mutating the
// accounts, and records the resulting plan.
func (wc *WithdrawalCoordinator) PlanYear(year, age int) (*domain.WithdrawalPlan, error) {
	guaranteed := wc.GuaranteedIncome(age)
	need := wc.WithdrawalNeed(guaranteed)

	rmds := make(map[string]decimal.Decimal, len(wc.accounts))
	totalRMD := decimal.Zero
	for _, a := range wc.accounts {
		rmd, err := a.CalculateRMD(age, wc.profile.BirthYear)
		if err != nil {
			return nil, fmt.Errorf("rmd for account %s: %w", a.ID, err)
		}
		rmds[a.ID] = rmd
		totalRMD = totalRMD.Add(rmd)
	}

	remaining := money.Floor0(need.Sub(totalRMD))
	sources := make([]sequencing.WithdrawalSource, 0, len(wc.accounts))
	for _, a := range wc.accounts {
		available := money.Floor0(a.Balance().Sub(rmds[a.ID]))
		sources = append(sources, sequencing.CreateWithdrawalSource(a.ID, a.Type, available, a.UnrealizedGainPercent()))
	}
	seqPlan := wc.strategy.Plan(sources, sequencing.CreateStrategyContext(remaining, wc.money))
	discretionary := seqPlan.Amounts()

	plan := &domain.WithdrawalPlan{
		Year:             year,
		Age:              age,
		GuaranteedIncome: guaranteed,
		WithdrawalNeed:   need,
		RMDs:             rmds,
		Withdrawals:      make(map[string]decimal.Decimal, len(wc.accounts)),
		Balances:         make(map[string]decimal.Decimal, len(wc.accounts)),
		Accounts:         make([]domain.AccountInfo, 0, len(wc.accounts)),
		AvoidIRMAA:       wc.policy.AvoidIRMAA,
	}

	ordinary := decimal.Zero
	gains := decimal.Zero
	withdrawn := decimal.Zero
	for _, a := range wc.accounts {
		amount := rmds[a.ID].Add(discretionary[a.ID])
		gross := decimal.Zero
		if amount.IsPositive() {
			estimate := a.EstimateTaxComponents(amount)
			res := a.Withdraw(amount, age, year)
			gross = res.GrossAmount
			switch a.Type {
			case domain.AccountTraditional:
				ordinary = ordinary.Add(res.TaxableAmount)
			case domain.AccountTaxable:
				gains = gains.Add(estimate.TaxableAmount)
			}
		}
		withdrawn = withdrawn.Add(gross)
		plan.Withdrawals[a.ID] = gross
		plan.Balances[a.ID] = a.Balance()
		plan.Accounts = append(plan.Accounts, a.Info())
	}

	tax, err := wc.taxCalc.Calculate(domain.TaxInput{
		OrdinaryIncome:       ordinary,
		LongTermCapitalGains: gains,
		SocialSecurityGross:  guaranteed,
		FilingStatus:         wc.profile.FilingStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("tax for %d: %w", year, err)
	}

	shortfall := money.Floor0(need.Sub(withdrawn))
	if shortfall.LessThan(shortfallTolerance) {
		shortfall = decimal.Zero
	}

	plan.OrdinaryIncome = ordinary
	plan.CapitalGains = gains
	plan.Shortfall = shortfall
	plan.Tax = tax
	plan.TotalGrossIncome = guaranteed.Add(withdrawn)
	plan.TotalTax = tax.TotalTax
	plan.TotalNetIncome = plan.TotalGrossIncome.Sub(tax.TotalTax)
	plan.TotalPortfolioValue = wc.TotalPortfolioValue()

	wc.history = append(wc.history, *plan)
	wc.logger.Debugf("year %d age %d: need=%s rmd=%s withdrawn=%s tax=%s portfolio=%s",
		year, age, need.StringFixed(2), totalRMD.StringFixed(2), withdrawn.StringFixed(2),
		tax.TotalTax.StringFixed(2), plan.TotalPortfolioValue.StringFixed(2))
	return plan, nil
}

// PlanNextYear plans the year the counters point at.
func (wc *WithdrawalCoordinator) PlanNextYear() (*domain.WithdrawalPlan, error) {
	return wc.PlanYear(wc.year, wc.age)
}

// ApplyGrowth grows every account by rate and advances the year and age.
func (wc *WithdrawalCoordinator) ApplyGrowth(rate decimal.Decimal) {
	for _, a := range wc.accounts {
		a.ApplyGrowth(rate)
	}
	wc.yearsElapsed++
	wc.year++
	wc.age++
}
