package sequencing

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// CreateStrategy returns the strategy for name. The empty name resolves to
// taxable-first.
func CreateStrategy(name domain.SequencingStrategy) (SequencingStrategy, error) {
	switch name {
	case "", domain.StrategyTaxableFirst:
		return NewTaxableFirstStrategy(), nil
	case domain.StrategyTraditionalFirst:
		return NewTraditionalFirstStrategy(), nil
	case domain.StrategyRothFirst:
		return NewRothFirstStrategy(), nil
	case domain.StrategyProRata:
		return NewProRataStrategy(), nil
	default:
		return nil, fmt.Errorf("sequencing strategy %q: %w", name, domain.ErrUnknownValue)
	}
}

// CreateStrategyContext builds the context for one year's discretionary need.
func CreateStrategyContext(needAmount decimal.Decimal, m money.Context) StrategyContext {
	return StrategyContext{NeedAmount: needAmount, Money: m}
}

// CreateWithdrawalSource describes one account for a strategy.
func CreateWithdrawalSource(id string, accountType domain.AccountType, available, gainPercent decimal.Decimal) WithdrawalSource {
	return WithdrawalSource{
		ID:           id,
		Type:         accountType,
		Available:    available,
		GainPercent:  gainPercent,
		TaxTreatment: TreatmentFor(accountType),
	}
}
