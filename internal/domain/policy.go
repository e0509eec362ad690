package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SequencingStrategy names the order in which account tiers cover the
// discretionary part of a year's withdrawal need.
type SequencingStrategy string

const (
	StrategyTaxableFirst     SequencingStrategy = "taxable-first"
	StrategyTraditionalFirst SequencingStrategy = "traditional-first"
	StrategyRothFirst        SequencingStrategy = "roth-first"
	StrategyProRata          SequencingStrategy = "pro-rata"
)

// UnmarshalText accepts the same spellings as FilingStatus.
func (s *SequencingStrategy) UnmarshalText(text []byte) error {
	*s = SequencingStrategy(normalizeEnum(string(text)))
	return nil
}

// Valid reports whether s is a known strategy. The empty value is accepted
// and resolves to taxable-first.
func (s SequencingStrategy) Valid() bool {
	switch s {
	case "", StrategyTaxableFirst, StrategyTraditionalFirst, StrategyRothFirst, StrategyProRata:
		return true
	}
	return false
}

// WithdrawalPolicy controls how much is withdrawn each year and from where.
type WithdrawalPolicy struct {
	TargetNetIncome        *decimal.Decimal   `yaml:"target_net_income,omitempty" json:"targetNetIncome,omitempty"`
	WithdrawalRate         *decimal.Decimal   `yaml:"withdrawal_rate,omitempty" json:"withdrawalRate,omitempty"`
	MinRequiredIncome      *decimal.Decimal   `yaml:"min_required_income,omitempty" json:"minRequiredIncome,omitempty"`
	SequencingStrategy     SequencingStrategy `yaml:"sequencing_strategy" json:"sequencingStrategy"`
	InflationAdjust        bool               `yaml:"inflation_adjust" json:"inflationAdjust"`
	InflationRate          decimal.Decimal    `yaml:"inflation_rate" json:"inflationRate"`
	MinIncomeInflationRate *decimal.Decimal   `yaml:"min_income_inflation_rate,omitempty" json:"minIncomeInflationRate,omitempty"`
	// AvoidIRMAA is carried through to each plan but does not change any
	// withdrawal decision.
	AvoidIRMAA bool `yaml:"avoid_irmaa" json:"avoidIrmaa"`
}

// Validate enforces that at least one need driver is set and that the
// configured amounts are usable.
func (p *WithdrawalPolicy) Validate() error {
	if p.TargetNetIncome == nil && p.WithdrawalRate == nil && p.MinRequiredIncome == nil {
		return ErrNoNeedDriver
	}
	drivers := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"target_net_income", p.TargetNetIncome},
		{"withdrawal_rate", p.WithdrawalRate},
		{"min_required_income", p.MinRequiredIncome},
	}
	for _, d := range drivers {
		if d.value != nil && d.value.IsNegative() {
			return fmt.Errorf("%s: %w", d.name, ErrNegativeAmount)
		}
	}
	if !p.SequencingStrategy.Valid() {
		return fmt.Errorf("sequencing_strategy %q: %w", p.SequencingStrategy, ErrUnknownValue)
	}
	return nil
}

// Strategy returns the configured strategy, defaulting to taxable-first.
func (p *WithdrawalPolicy) Strategy() SequencingStrategy {
	if p.SequencingStrategy == "" {
		return StrategyTaxableFirst
	}
	return p.SequencingStrategy
}

// MinIncomeInflation returns the rate used to index the minimum income floor.
func (p *WithdrawalPolicy) MinIncomeInflation() decimal.Decimal {
	if p.MinIncomeInflationRate != nil {
		return *p.MinIncomeInflationRate
	}
	return p.InflationRate
}

// DeepCopy returns a copy of p with its optional amounts copied.
func (p *WithdrawalPolicy) DeepCopy() *WithdrawalPolicy {
	c := *p
	c.TargetNetIncome = copyDecimal(p.TargetNetIncome)
	c.WithdrawalRate = copyDecimal(p.WithdrawalRate)
	c.MinRequiredIncome = copyDecimal(p.MinRequiredIncome)
	c.MinIncomeInflationRate = copyDecimal(p.MinIncomeInflationRate)
	return &c
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
