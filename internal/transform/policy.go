package transform

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// SetSequencing changes the order in which accounts are drawn.
type SetSequencing struct {
	Strategy domain.SequencingStrategy
}

func (ss *SetSequencing) Name() string {
	return "set_strategy"
}

func (ss *SetSequencing) Description() string {
	return fmt.Sprintf("Withdraw %s", ss.Strategy)
}

func (ss *SetSequencing) Validate(base *domain.Scenario) error {
	if ss.Strategy == "" || !ss.Strategy.Valid() {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("unknown strategy %q", ss.Strategy), domain.ErrUnknownValue)
	}
	return requirePolicy(ss.Name(), base)
}

func (ss *SetSequencing) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Policy.SequencingStrategy = ss.Strategy
	return modified, nil
}

// SetTargetIncome sets the annual income target, which takes precedence
// over any withdrawal rate.
type SetTargetIncome struct {
	Amount decimal.Decimal
}

func (st *SetTargetIncome) Name() string {
	return "set_target_income"
}

func (st *SetTargetIncome) Description() string {
	return fmt.Sprintf("Target $%s of annual income", st.Amount.StringFixed(0))
}

func (st *SetTargetIncome) Validate(base *domain.Scenario) error {
	if st.Amount.IsNegative() {
		return NewTransformError(st.Name(), "validate", "amount must not be negative", domain.ErrNegativeAmount)
	}
	return requirePolicy(st.Name(), base)
}

func (st *SetTargetIncome) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	amount := st.Amount
	modified.Policy.TargetNetIncome = &amount
	return modified, nil
}

// SetWithdrawalRate switches the policy to a fixed share of the starting
// portfolio. Any income target is cleared so the rate drives the need.
type SetWithdrawalRate struct {
	Rate decimal.Decimal
}

var maxWithdrawalRate = decimal.RequireFromString("0.20")

func (sw *SetWithdrawalRate) Name() string {
	return "set_withdrawal_rate"
}

func (sw *SetWithdrawalRate) Description() string {
	return fmt.Sprintf("Withdraw %s%% of the starting portfolio", sw.Rate.Shift(2).StringFixed(1))
}

func (sw *SetWithdrawalRate) Validate(base *domain.Scenario) error {
	if !sw.Rate.IsPositive() || sw.Rate.GreaterThan(maxWithdrawalRate) {
		return NewTransformError(sw.Name(), "validate",
			fmt.Sprintf("rate must be in (0, %s], got %s", maxWithdrawalRate, sw.Rate), nil)
	}
	return requirePolicy(sw.Name(), base)
}

func (sw *SetWithdrawalRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	rate := sw.Rate
	modified.Policy.WithdrawalRate = &rate
	modified.Policy.TargetNetIncome = nil
	return modified, nil
}
