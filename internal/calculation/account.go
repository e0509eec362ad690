package calculation

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// Account is the live state of one investment account during a run. The
// Type tag selects the withdrawal, RMD and tax behavior; variant payload
// fields are only meaningful for their own type:
//
//	taxable      costBasis (average-cost basis)
//	traditional  birthYear (owner, for the RMD start age)
//	roth         none
type Account struct {
	ID       string
	Nickname string
	Type     domain.AccountType

	balance   decimal.Decimal
	costBasis decimal.Decimal
	birthYear int

	ctx money.Context
	rmd *RMDCalculator
}

// NewAccount builds live state from a definition. birthYear is recorded on
// traditional accounts and ignored otherwise.
func NewAccount(def domain.AccountDefinition, birthYear int, ctx money.Context) (*Account, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	switch def.Type {
	case domain.AccountTaxable:
		basis := decimal.Zero
		if def.CostBasis != nil {
			basis = *def.CostBasis
		}
		acct, err := NewTaxableAccount(def.ID, def.Balance, basis, ctx)
		if err != nil {
			return nil, err
		}
		acct.Nickname = def.Nickname
		return acct, nil
	case domain.AccountTraditional:
		acct := NewTraditionalAccount(def.ID, def.Balance, birthYear, ctx)
		acct.Nickname = def.Nickname
		return acct, nil
	default:
		acct := NewRothAccount(def.ID, def.Balance, ctx)
		acct.Nickname = def.Nickname
		return acct, nil
	}
}

// NewTaxableAccount creates a brokerage account. The cost basis must lie
// between zero and the balance.
func NewTaxableAccount(id string, balance, costBasis decimal.Decimal, ctx money.Context) (*Account, error) {
	if costBasis.IsNegative() || costBasis.GreaterThan(balance) {
		return nil, fmt.Errorf("account %s cost basis %s: %w", id, costBasis.String(), domain.ErrInvalidCostBasis)
	}
	return &Account{ID: id, Type: domain.AccountTaxable, balance: balance, costBasis: costBasis, ctx: ctx, rmd: NewRMDCalculator(ctx)}, nil
}

// NewTraditionalAccount creates a tax-deferred account. A zero birthYear
// leaves the RMD start age at its default.
func NewTraditionalAccount(id string, balance decimal.Decimal, birthYear int, ctx money.Context) *Account {
	return &Account{ID: id, Type: domain.AccountTraditional, balance: balance, birthYear: birthYear, ctx: ctx, rmd: NewRMDCalculator(ctx)}
}

// NewRothAccount creates a tax-free account.
func NewRothAccount(id string, balance decimal.Decimal, ctx money.Context) *Account {
	return &Account{ID: id, Type: domain.AccountRoth, balance: balance, ctx: ctx, rmd: NewRMDCalculator(ctx)}
}

func (a *Account) Balance() decimal.Decimal   { return a.balance }
func (a *Account) CostBasis() decimal.Decimal { return a.costBasis }
func (a *Account) BirthYear() int             { return a.birthYear }

// Info returns the display snapshot for plans.
func (a *Account) Info() domain.AccountInfo {
	return domain.AccountInfo{ID: a.ID, Nickname: a.Nickname, Type: a.Type}
}

// UnrealizedGainPercent is (balance-basis)/balance for taxable accounts and
// zero otherwise or when the balance is zero.
func (a *Account) UnrealizedGainPercent() decimal.Decimal {
	if a.Type != domain.AccountTaxable || !a.balance.IsPositive() {
		return decimal.Zero
	}
	return a.ctx.Div(a.balance.Sub(a.costBasis), a.balance)
}

// Withdraw removes up to amount from the account and reports its tax
// character. Requests above the balance are capped. age and year do not
// change the result; no early-withdrawal penalty is modeled.
func (a *Account) Withdraw(amount decimal.Decimal, age, year int) domain.WithdrawalResult {
	res := a.EstimateTaxComponents(amount)
	if res.GrossAmount.IsZero() {
		return res
	}
	a.balance = a.balance.Sub(res.GrossAmount)
	if a.Type == domain.AccountTaxable {
		a.costBasis = a.costBasis.Sub(res.CostBasisRemoved)
		basis := a.costBasis
		res.CostBasis = &basis
	}
	res.RemainingBalance = a.balance
	return res
}

// EstimateTaxComponents computes what Withdraw would return without
// changing any state. RemainingBalance and CostBasis describe the account
// after the hypothetical withdrawal.
func (a *Account) EstimateTaxComponents(amount decimal.Decimal) domain.WithdrawalResult {
	res := domain.WithdrawalResult{IncomeType: a.incomeType(), RemainingBalance: a.balance}
	if a.Type == domain.AccountTaxable {
		basis := a.costBasis
		res.CostBasis = &basis
	}
	if !amount.IsPositive() || !a.balance.IsPositive() {
		return res
	}

	gross := money.Min(amount, a.balance)
	res.GrossAmount = gross
	res.RemainingBalance = a.balance.Sub(gross)

	switch a.Type {
	case domain.AccountTaxable:
		ratio := a.ctx.Div(a.costBasis, a.balance)
		removed := money.Min(a.costBasis, gross.Mul(ratio))
		removed = money.Min(removed, gross)
		res.CostBasisRemoved = removed
		res.TaxableAmount = money.Floor0(gross.Sub(removed))
		remaining := a.costBasis.Sub(removed)
		res.CostBasis = &remaining
	case domain.AccountTraditional:
		res.TaxableAmount = gross
	}
	return res
}

// CalculateRMD returns the required distribution for age. A positive
// birthYear overrides the one stored on the account. Taxable and Roth
// accounts never require distributions.
func (a *Account) CalculateRMD(age, birthYear int) (decimal.Decimal, error) {
	if a.Type != domain.AccountTraditional {
		return decimal.Zero, nil
	}
	if birthYear <= 0 {
		birthYear = a.birthYear
	}
	return a.rmd.CalculateRMD(a.balance, age, birthYear)
}

// ApplyGrowth multiplies the balance by (1+rate). Cost basis is unchanged.
func (a *Account) ApplyGrowth(rate decimal.Decimal) {
	a.balance = a.ctx.Grow(a.balance, rate)
}

func (a *Account) incomeType() domain.IncomeType {
	switch a.Type {
	case domain.AccountTaxable:
		return domain.IncomeLongTermCapitalGain
	case domain.AccountTraditional:
		return domain.IncomeOrdinary
	default:
		return domain.IncomeTaxFree
	}
}
