package sequencing

import (
	"sort"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// TieredStrategy drains account tiers in a fixed order. Inside a tier,
// accounts are drawn in configured order, except that the taxable tier can
// be ordered by lowest unrealized gain first.
type TieredStrategy struct {
	name        string
	order       []domain.AccountType
	lowGainLead bool
}

// NewTaxableFirstStrategy: taxable -> traditional -> roth, lowest-gain
// taxable accounts first.
func NewTaxableFirstStrategy() *TieredStrategy {
	return &TieredStrategy{
		name:        string(domain.StrategyTaxableFirst),
		order:       []domain.AccountType{domain.AccountTaxable, domain.AccountTraditional, domain.AccountRoth},
		lowGainLead: true,
	}
}

// NewTraditionalFirstStrategy: traditional -> taxable -> roth.
func NewTraditionalFirstStrategy() *TieredStrategy {
	return &TieredStrategy{
		name:  string(domain.StrategyTraditionalFirst),
		order: []domain.AccountType{domain.AccountTraditional, domain.AccountTaxable, domain.AccountRoth},
	}
}

// NewRothFirstStrategy: roth -> taxable -> traditional.
func NewRothFirstStrategy() *TieredStrategy {
	return &TieredStrategy{
		name:  string(domain.StrategyRothFirst),
		order: []domain.AccountType{domain.AccountRoth, domain.AccountTaxable, domain.AccountTraditional},
	}
}

func (s *TieredStrategy) Name() string { return s.name }

// Order returns the sources in the sequence this strategy draws them.
func (s *TieredStrategy) Order(sources []WithdrawalSource) []WithdrawalSource {
	ordered := make([]WithdrawalSource, 0, len(sources))
	for _, tier := range s.order {
		start := len(ordered)
		for _, src := range sources {
			if src.Type == tier {
				ordered = append(ordered, src)
			}
		}
		if tier == domain.AccountTaxable && s.lowGainLead {
			group := ordered[start:]
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].GainPercent.LessThan(group[j].GainPercent)
			})
		}
	}
	return ordered
}

func (s *TieredStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NeedAmount, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NeedAmount

	for _, src := range s.Order(sources) {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if src.Available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		withdraw := money.Min(src.Available, remaining)
		plan.add(src, withdraw)
		remaining = remaining.Sub(withdraw)
	}

	plan.RemainingNeed = money.Floor0(remaining)
	return plan
}
