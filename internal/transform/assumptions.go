package transform

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// ModifyInflation sets the inflation rate used to index the income target
// and turns indexing on.
type ModifyInflation struct {
	NewRate decimal.Decimal
}

var maxInflation = decimal.RequireFromString("0.10")

func (mi *ModifyInflation) Name() string {
	return "set_inflation"
}

func (mi *ModifyInflation) Description() string {
	return fmt.Sprintf("Index spending at %s%% inflation", mi.NewRate.Shift(2).StringFixed(1))
}

func (mi *ModifyInflation) Validate(base *domain.Scenario) error {
	if mi.NewRate.IsNegative() || mi.NewRate.GreaterThan(maxInflation) {
		return NewTransformError(mi.Name(), "validate",
			fmt.Sprintf("inflation rate must be between 0 and %s, got %s", maxInflation, mi.NewRate), nil)
	}
	return requirePolicy(mi.Name(), base)
}

func (mi *ModifyInflation) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Policy.InflationRate = mi.NewRate
	modified.Policy.InflationAdjust = true
	return modified, nil
}

// ScaleSpending multiplies every configured need driver by Factor.
type ScaleSpending struct {
	Factor decimal.Decimal
}

var maxSpendingFactor = decimal.NewFromInt(2)

func (sc *ScaleSpending) Name() string {
	return "scale_spending"
}

func (sc *ScaleSpending) Description() string {
	change := sc.Factor.Sub(decimal.NewFromInt(1)).Shift(2)
	if change.IsNegative() {
		return fmt.Sprintf("Spend %s%% less", change.Abs().StringFixed(0))
	}
	return fmt.Sprintf("Spend %s%% more", change.StringFixed(0))
}

func (sc *ScaleSpending) Validate(base *domain.Scenario) error {
	if !sc.Factor.IsPositive() || sc.Factor.GreaterThan(maxSpendingFactor) {
		return NewTransformError(sc.Name(), "validate",
			fmt.Sprintf("factor must be in (0, %s], got %s", maxSpendingFactor, sc.Factor), nil)
	}
	return requirePolicy(sc.Name(), base)
}

func (sc *ScaleSpending) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	p := modified.Policy
	for _, v := range []*decimal.Decimal{p.TargetNetIncome, p.WithdrawalRate, p.MinRequiredIncome} {
		if v != nil {
			*v = v.Mul(sc.Factor)
		}
	}
	return modified, nil
}
