package calculation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func singleProfile(birthYear int) domain.UserProfile {
	return domain.UserProfile{BirthYear: birthYear, RetirementAge: 65, FilingStatus: domain.FilingSingle}
}

func newCoordinator(t *testing.T, accounts []*Account, profile domain.UserProfile, policy domain.WithdrawalPolicy, ssa *domain.SSAIncome, startYear int) *WithdrawalCoordinator {
	t.Helper()
	wc, err := NewWithdrawalCoordinator(accounts, profile, policy, ssa, startYear, NewFederalTaxCalculator2024(), money.DefaultContext)
	require.NoError(t, err)
	return wc
}

func TestCoordinatorTraditionalOnly(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("500000"), 1958, money.DefaultContext)
	wc := newCoordinator(t, []*Account{ira}, singleProfile(1958),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("40000")}, nil, 2025)

	plan, err := wc.PlanNextYear()
	require.NoError(t, err)

	assert.Equal(t, 2025, plan.Year)
	assert.Equal(t, 67, plan.Age)
	assert.True(t, plan.WithdrawalNeed.Equal(dec("40000")))
	assert.True(t, plan.OrdinaryIncome.Equal(dec("40000")))
	assert.True(t, plan.CapitalGains.IsZero())
	// 25,400 taxable: 1,160 + 13,800 x 12%.
	assert.True(t, plan.TotalTax.Equal(dec("2816")), plan.TotalTax.String())
	assert.True(t, plan.TotalNetIncome.Equal(dec("37184")))
	assert.True(t, plan.Shortfall.IsZero())
	assert.True(t, plan.TotalPortfolioValue.Equal(dec("460000")))
}

func TestCoordinatorRMDExceedsNeed(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("246000"), 1950, money.DefaultContext)
	wc := newCoordinator(t, []*Account{ira}, singleProfile(1950),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("5000")}, nil, 2025)

	plan, err := wc.PlanYear(2025, 75)
	require.NoError(t, err)
	assert.True(t, plan.RMDs["ira"].Equal(dec("10000")))
	assert.True(t, plan.Withdrawals["ira"].Equal(dec("10000")), "RMD is taken even above need")
	assert.True(t, plan.Shortfall.IsZero())
}

func TestCoordinatorMergesRMDWithTaxableFirst(t *testing.T) {
	brokerage, err := NewTaxableAccount("brokerage", dec("100000"), dec("60000"), money.DefaultContext)
	require.NoError(t, err)
	ira := NewTraditionalAccount("ira", dec("246000"), 1950, money.DefaultContext)
	wc := newCoordinator(t, []*Account{brokerage, ira}, singleProfile(1950),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("30000")}, nil, 2025)

	plan, err := wc.PlanNextYear()
	require.NoError(t, err)

	want := map[string]decimal.Decimal{"brokerage": dec("20000"), "ira": dec("10000")}
	if diff := cmp.Diff(want, plan.Withdrawals, decimalEqual); diff != "" {
		t.Errorf("withdrawals mismatch (-want +got):\n%s", diff)
	}
	wantBalances := map[string]decimal.Decimal{"brokerage": dec("80000"), "ira": dec("236000")}
	if diff := cmp.Diff(wantBalances, plan.Balances, decimalEqual); diff != "" {
		t.Errorf("balances mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, plan.OrdinaryIncome.Equal(dec("10000")))
	assert.True(t, plan.CapitalGains.Equal(dec("8000")))
	assert.True(t, plan.TotalTax.IsZero(), "taxable income sits in the zero-rate band")
	assert.True(t, plan.TotalGrossIncome.Equal(dec("30000")))
	assert.True(t, plan.TotalWithdrawals().Equal(dec("30000")))
	assert.Equal(t, []domain.AccountInfo{
		{ID: "brokerage", Type: domain.AccountTaxable},
		{ID: "ira", Type: domain.AccountTraditional},
	}, plan.Accounts)
}

func TestCoordinatorTraditionalFirstUsesRMDHeadroom(t *testing.T) {
	brokerage, err := NewTaxableAccount("brokerage", dec("100000"), dec("60000"), money.DefaultContext)
	require.NoError(t, err)
	ira := NewTraditionalAccount("ira", dec("246000"), 1950, money.DefaultContext)
	wc := newCoordinator(t, []*Account{brokerage, ira}, singleProfile(1950),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("30000"), SequencingStrategy: domain.StrategyTraditionalFirst}, nil, 2025)

	plan, err := wc.PlanNextYear()
	require.NoError(t, err)
	assert.True(t, plan.Withdrawals["ira"].Equal(dec("30000")))
	assert.True(t, plan.Withdrawals["brokerage"].IsZero())
	assert.True(t, plan.OrdinaryIncome.Equal(dec("30000")))
}

func TestCoordinatorProRata(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("60000"), 1960, money.DefaultContext)
	roth := NewRothAccount("roth", dec("40000"), money.DefaultContext)
	wc := newCoordinator(t, []*Account{ira, roth}, singleProfile(1960),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("10000"), SequencingStrategy: domain.StrategyProRata}, nil, 2025)

	plan, err := wc.PlanNextYear()
	require.NoError(t, err)
	assert.True(t, plan.Withdrawals["ira"].Equal(dec("6000")))
	assert.True(t, plan.Withdrawals["roth"].Equal(dec("4000")))
	assert.True(t, plan.OrdinaryIncome.Equal(dec("6000")))
	assert.True(t, plan.TotalTax.IsZero())
}

func TestCoordinatorSocialSecurityReducesNeed(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("500000"), 1958, money.DefaultContext)
	ssa := &domain.SSAIncome{FRAMonthlyBenefit: dec("2000"), ClaimingAge: 67}
	wc := newCoordinator(t, []*Account{ira}, singleProfile(1958),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("40000")}, ssa, 2025)

	plan, err := wc.PlanNextYear()
	require.NoError(t, err)
	assert.True(t, plan.GuaranteedIncome.Equal(dec("24000")))
	assert.True(t, plan.WithdrawalNeed.Equal(dec("16000")))
	assert.True(t, plan.Tax.TaxableSocialSecurity.Equal(dec("1500")))
	assert.True(t, plan.TotalTax.Equal(dec("290")))
	assert.True(t, plan.TotalGrossIncome.Equal(dec("40000")))
	assert.True(t, plan.TotalNetIncome.Equal(dec("39710")))
}

func TestWithdrawalNeed(t *testing.T) {
	newWC := func(policy domain.WithdrawalPolicy) *WithdrawalCoordinator {
		ira := NewTraditionalAccount("ira", dec("500000"), 1960, money.DefaultContext)
		return newCoordinator(t, []*Account{ira}, singleProfile(1960), policy, nil, 2025)
	}

	t.Run("minimum floor raises need", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{MinRequiredIncome: decPtr("30000")})
		assert.True(t, wc.WithdrawalNeed(dec("24000")).Equal(dec("6000")))
		assert.True(t, wc.WithdrawalNeed(dec("31000")).IsZero())
	})

	t.Run("floor overrides lower target", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{TargetNetIncome: decPtr("20000"), MinRequiredIncome: decPtr("30000")})
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("30000")))
	})

	t.Run("target takes precedence over rate", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{TargetNetIncome: decPtr("35000"), WithdrawalRate: decPtr("0.04")})
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("35000")))
	})

	t.Run("rate applies to starting portfolio", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{WithdrawalRate: decPtr("0.04")})
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("20000")))
		wc.ApplyGrowth(dec("0.5"))
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("20000")))
	})

	t.Run("inflation indexes target", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{TargetNetIncome: decPtr("40000"), InflationAdjust: true, InflationRate: dec("0.10")})
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("40000")))
		wc.ApplyGrowth(decimal.Zero)
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("44000")))
		wc.ApplyGrowth(decimal.Zero)
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("48400")))
	})

	t.Run("floor uses its own inflation rate", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{
			MinRequiredIncome:      decPtr("10000"),
			InflationAdjust:        true,
			InflationRate:          dec("0.10"),
			MinIncomeInflationRate: decPtr("0.02"),
		})
		wc.ApplyGrowth(decimal.Zero)
		assert.True(t, wc.WithdrawalNeed(decimal.Zero).Equal(dec("10200")))
	})

	t.Run("guaranteed income above target", func(t *testing.T) {
		wc := newWC(domain.WithdrawalPolicy{TargetNetIncome: decPtr("20000")})
		assert.True(t, wc.WithdrawalNeed(dec("25000")).IsZero())
	})
}

func TestCoordinatorShortfall(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("100"), 1960, money.DefaultContext)
	wc := newCoordinator(t, []*Account{ira}, singleProfile(1960),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("1000")}, nil, 2025)

	plan, err := wc.PlanNextYear()
	require.NoError(t, err)
	assert.True(t, plan.Withdrawals["ira"].Equal(dec("100")))
	assert.True(t, plan.Shortfall.Equal(dec("900")))
	assert.True(t, plan.TotalPortfolioValue.IsZero())
}

func TestCoordinatorCountersAndHistory(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("100000"), 1960, money.DefaultContext)
	wc := newCoordinator(t, []*Account{ira}, singleProfile(1960),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("1000"), AvoidIRMAA: true}, nil, 2025)

	assert.Equal(t, 2025, wc.Year())
	assert.Equal(t, 65, wc.Age())

	first, err := wc.PlanNextYear()
	require.NoError(t, err)
	assert.True(t, first.AvoidIRMAA)
	wc.ApplyGrowth(dec("0.10"))
	assert.Equal(t, 2026, wc.Year())
	assert.Equal(t, 66, wc.Age())
	assert.True(t, wc.TotalPortfolioValue().Equal(dec("108900")))

	second, err := wc.PlanNextYear()
	require.NoError(t, err)
	assert.Equal(t, 2026, second.Year)

	history := wc.History()
	require.Len(t, history, 2)
	assert.Equal(t, 2025, history[0].Year)
	history[0].Year = 1900
	assert.Equal(t, 2025, wc.History()[0].Year, "history is returned by copy")
}

func TestNewWithdrawalCoordinatorValidation(t *testing.T) {
	ira := NewTraditionalAccount("ira", dec("1000"), 1960, money.DefaultContext)

	_, err := NewWithdrawalCoordinator(nil, singleProfile(1960), domain.WithdrawalPolicy{TargetNetIncome: decPtr("1")}, nil, 2025, nil, money.DefaultContext)
	assert.True(t, errors.Is(err, domain.ErrNoAccounts))

	_, err = NewWithdrawalCoordinator([]*Account{ira}, singleProfile(1960), domain.WithdrawalPolicy{}, nil, 2025, nil, money.DefaultContext)
	assert.True(t, errors.Is(err, domain.ErrNoNeedDriver))

	_, err = NewWithdrawalCoordinator([]*Account{ira}, singleProfile(1960),
		domain.WithdrawalPolicy{TargetNetIncome: decPtr("1"), SequencingStrategy: "bracket-fill"}, nil, 2025, nil, money.DefaultContext)
	assert.True(t, errors.Is(err, domain.ErrUnknownValue))
}
