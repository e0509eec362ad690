package sequencing

import (
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// TaxTreatment represents tax characteristics of a withdrawal source
// Ordinary: fully taxable as ordinary income (traditional)
// TaxFree: no current year tax impact (Roth)
// CapitalGains: only the gain above average cost basis is taxed (taxable)
type TaxTreatment int

const (
	TaxFree TaxTreatment = iota
	OrdinaryIncome
	CapitalGains
)

func (tt TaxTreatment) String() string {
	switch tt {
	case TaxFree:
		return "tax_free"
	case OrdinaryIncome:
		return "ordinary"
	case CapitalGains:
		return "capital_gains"
	default:
		return "unknown"
	}
}

// TreatmentFor maps an account type to its tax treatment.
func TreatmentFor(t domain.AccountType) TaxTreatment {
	switch t {
	case domain.AccountTraditional:
		return OrdinaryIncome
	case domain.AccountTaxable:
		return CapitalGains
	default:
		return TaxFree
	}
}

// WithdrawalSource is one account as seen by a strategy.
// Available: what may still be withdrawn this year (balance net of any RMD
// already scheduled from the same account)
// GainPercent: unrealized gain as a fraction of balance (taxable only)
type WithdrawalSource struct {
	ID           string
	Type         domain.AccountType
	Available    decimal.Decimal
	GainPercent  decimal.Decimal
	TaxTreatment TaxTreatment
}

// WithdrawalAllocation is the discretionary amount assigned to one source.
type WithdrawalAllocation struct {
	SourceID string
	Type     domain.AccountType
	Gross    decimal.Decimal
}

// WithdrawalPlan aggregates the full plan for meeting a target amount
// Requested: amount the strategy was asked to source
// Allocations: per-source amounts in the order they were drawn
// TotalSourced: sum of Gross across allocations
// RemainingNeed: unmet portion when every source is exhausted
type WithdrawalPlan struct {
	Requested     decimal.Decimal
	Allocations   []WithdrawalAllocation
	TotalSourced  decimal.Decimal
	RemainingNeed decimal.Decimal
	StrategyUsed  string
}

// Amounts returns the allocations keyed by source id.
func (p WithdrawalPlan) Amounts() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.Allocations))
	for _, a := range p.Allocations {
		out[a.SourceID] = out[a.SourceID].Add(a.Gross)
	}
	return out
}

func (p *WithdrawalPlan) add(src WithdrawalSource, gross decimal.Decimal) {
	p.Allocations = append(p.Allocations, WithdrawalAllocation{SourceID: src.ID, Type: src.Type, Gross: gross})
	p.TotalSourced = p.TotalSourced.Add(gross)
}

// StrategyContext provides inputs required by sequencing strategies
// NeedAmount: discretionary amount to source, after RMDs
// Money: arithmetic settings for proportional splits
type StrategyContext struct {
	NeedAmount decimal.Decimal
	Money      money.Context
}

// SequencingStrategy defines interface for all withdrawal sequencing algorithms.
// Sources are given in configured account order; strategies must not
// depend on anything but that order and the source values.
type SequencingStrategy interface {
	Name() string
	Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan
}
