package sequencing

import (
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// ProRataStrategy draws from every account in proportion to its share of
// the available total. The last contributing account takes the rounding
// remainder so allocations sum to the need exactly.
type ProRataStrategy struct{}

func NewProRataStrategy() *ProRataStrategy { return &ProRataStrategy{} }

func (s *ProRataStrategy) Name() string { return string(domain.StrategyProRata) }

func (s *ProRataStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NeedAmount, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	need := ctx.NeedAmount
	if !need.IsPositive() {
		return plan
	}

	var funded []WithdrawalSource
	total := decimal.Zero
	for _, src := range sources {
		if src.Available.IsPositive() {
			funded = append(funded, src)
			total = total.Add(src.Available)
		}
	}
	if len(funded) == 0 {
		plan.RemainingNeed = need
		return plan
	}

	if need.GreaterThanOrEqual(total) {
		for _, src := range funded {
			plan.add(src, src.Available)
		}
		plan.RemainingNeed = need.Sub(total)
		return plan
	}

	for i, src := range funded {
		var share decimal.Decimal
		if i == len(funded)-1 {
			share = need.Sub(plan.TotalSourced)
		} else {
			share = ctx.Money.Div(need.Mul(src.Available), total)
		}
		share = money.Min(money.Floor0(share), src.Available)
		if share.IsPositive() {
			plan.add(src, share)
		}
	}
	plan.RemainingNeed = money.Floor0(need.Sub(plan.TotalSourced))
	return plan
}
