package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestTaxableWithdrawal(t *testing.T) {
	acct, err := NewTaxableAccount("brokerage", dec("100000"), dec("60000"), money.DefaultContext)
	require.NoError(t, err)

	res := acct.Withdraw(dec("20000"), 65, 2025)

	assert.True(t, res.GrossAmount.Equal(dec("20000")))
	assert.True(t, res.TaxableAmount.Equal(dec("8000")), res.TaxableAmount.String())
	assert.True(t, res.CostBasisRemoved.Equal(dec("12000")))
	assert.True(t, res.RemainingBalance.Equal(dec("80000")))
	require.NotNil(t, res.CostBasis)
	assert.True(t, res.CostBasis.Equal(dec("48000")))
	assert.Equal(t, domain.IncomeLongTermCapitalGain, res.IncomeType)
	assert.True(t, acct.Balance().Equal(dec("80000")))
	assert.True(t, acct.CostBasis().Equal(dec("48000")))
}

func TestTaxableWithdrawalConservesAmount(t *testing.T) {
	states := []struct{ balance, basis string }{
		{"100000", "60000"},
		{"100000", "0"},
		{"100000", "100000"},
		{"33333.33", "12345.67"},
		{"1", "0.3333"},
	}
	amounts := []string{"0.01", "1", "777.77", "20000", "99999.99", "100000", "250000"}

	for _, st := range states {
		for _, amt := range amounts {
			acct, err := NewTaxableAccount("t", dec(st.balance), dec(st.basis), money.DefaultContext)
			require.NoError(t, err)
			want := money.Min(dec(amt), acct.Balance())

			res := acct.Withdraw(dec(amt), 70, 2030)
			got := res.TaxableAmount.Add(res.CostBasisRemoved)
			if !got.Equal(want) {
				t.Errorf("balance %s basis %s withdraw %s: taxable+basis = %s, want %s",
					st.balance, st.basis, amt, got, want)
			}
		}
	}
}

func TestTaxableWithdrawalAfterLossKeepsInvariant(t *testing.T) {
	acct, err := NewTaxableAccount("t", dec("1000"), dec("1000"), money.DefaultContext)
	require.NoError(t, err)
	acct.ApplyGrowth(dec("-0.5"))
	require.True(t, acct.Balance().Equal(dec("500")))
	require.True(t, acct.CostBasis().Equal(dec("1000")), "growth never touches basis")

	res := acct.Withdraw(dec("200"), 70, 2030)
	assert.True(t, res.TaxableAmount.IsZero())
	assert.True(t, res.TaxableAmount.Add(res.CostBasisRemoved).Equal(dec("200")))
}

func TestEstimateTaxComponentsDoesNotMutate(t *testing.T) {
	acct, err := NewTaxableAccount("t", dec("100000"), dec("60000"), money.DefaultContext)
	require.NoError(t, err)

	est := acct.EstimateTaxComponents(dec("20000"))
	assert.True(t, est.TaxableAmount.Equal(dec("8000")))
	assert.True(t, acct.Balance().Equal(dec("100000")))
	assert.True(t, acct.CostBasis().Equal(dec("60000")))

	res := acct.Withdraw(dec("20000"), 65, 2025)
	assert.Equal(t, est, res)
}

func TestRothWithdrawalIsTaxFree(t *testing.T) {
	acct := NewRothAccount("roth", dec("50000"), money.DefaultContext)
	for age := 50; age <= 100; age += 10 {
		res := acct.Withdraw(dec("1000"), age, 2000+age)
		assert.True(t, res.TaxableAmount.IsZero(), "age %d", age)
		assert.Equal(t, domain.IncomeTaxFree, res.IncomeType)
	}
	assert.True(t, acct.Balance().Equal(dec("44000")))

	rmd, err := acct.CalculateRMD(90, 1940)
	require.NoError(t, err)
	assert.True(t, rmd.IsZero())
}

func TestTraditionalWithdrawalFullyTaxable(t *testing.T) {
	acct := NewTraditionalAccount("ira", dec("10000"), 1960, money.DefaultContext)
	for _, amt := range []string{"1", "2500.55", "7498.45", "5000"} {
		res := acct.Withdraw(dec(amt), 70, 2030)
		if !res.GrossAmount.IsZero() && !res.TaxableAmount.Equal(res.GrossAmount) {
			t.Errorf("withdraw %s: taxable %s != gross %s", amt, res.TaxableAmount, res.GrossAmount)
		}
		assert.Equal(t, domain.IncomeOrdinary, res.IncomeType)
	}
	assert.True(t, acct.Balance().IsZero(), "last withdrawal capped at remaining balance")
}

func TestWithdrawalCapsAndZeroAmounts(t *testing.T) {
	acct := NewTraditionalAccount("ira", dec("100"), 1960, money.DefaultContext)

	zero := acct.Withdraw(decimal.Zero, 70, 2030)
	assert.True(t, zero.GrossAmount.IsZero())
	assert.True(t, zero.TaxableAmount.IsZero())
	assert.True(t, zero.RemainingBalance.Equal(dec("100")))

	negative := acct.Withdraw(dec("-5"), 70, 2030)
	assert.True(t, negative.GrossAmount.IsZero())

	capped := acct.Withdraw(dec("1000"), 70, 2030)
	assert.True(t, capped.GrossAmount.Equal(dec("100")))
	assert.True(t, capped.RemainingBalance.IsZero())

	empty := acct.Withdraw(dec("10"), 70, 2030)
	assert.True(t, empty.GrossAmount.IsZero())
}

func TestTaxableCostBasisValidation(t *testing.T) {
	_, err := NewTaxableAccount("t", dec("100"), dec("101"), money.DefaultContext)
	assert.True(t, errors.Is(err, domain.ErrInvalidCostBasis))

	_, err = NewTaxableAccount("t", dec("100"), dec("-1"), money.DefaultContext)
	assert.True(t, errors.Is(err, domain.ErrInvalidCostBasis))

	_, err = NewAccount(domain.AccountDefinition{ID: "t", Type: domain.AccountTaxable, Balance: dec("10"), CostBasis: decPtr("20")}, 1960, money.DefaultContext)
	assert.True(t, errors.Is(err, domain.ErrInvalidCostBasis))
}

func TestNewAccountVariants(t *testing.T) {
	defs := []domain.AccountDefinition{
		{ID: "a", Nickname: "Brokerage", Type: domain.AccountTaxable, Balance: dec("100"), CostBasis: decPtr("40")},
		{ID: "b", Type: domain.AccountTraditional, Balance: dec("200")},
		{ID: "c", Type: domain.AccountRoth, Balance: dec("300")},
	}
	for _, def := range defs {
		acct, err := NewAccount(def, 1958, money.DefaultContext)
		require.NoError(t, err)
		assert.Equal(t, def.Type, acct.Type)
		assert.Equal(t, def.ID, acct.Info().ID)
		assert.True(t, acct.Balance().Equal(def.Balance))
	}

	acct, err := NewAccount(defs[0], 1958, money.DefaultContext)
	require.NoError(t, err)
	assert.Equal(t, "Brokerage", acct.Info().Label())
	assert.True(t, acct.UnrealizedGainPercent().Equal(dec("0.6")))

	ira, err := NewAccount(defs[1], 1958, money.DefaultContext)
	require.NoError(t, err)
	assert.Equal(t, 1958, ira.BirthYear())
	assert.Equal(t, "b", ira.Info().Label())
	assert.True(t, ira.UnrealizedGainPercent().IsZero())
}

func TestTraditionalRMDUsesStoredBirthYearUnlessOverridden(t *testing.T) {
	acct := NewTraditionalAccount("ira", dec("246000"), 1960, money.DefaultContext)

	rmd, err := acct.CalculateRMD(74, 0)
	require.NoError(t, err)
	assert.True(t, rmd.IsZero(), "born 1960 starts at 75")

	rmd, err = acct.CalculateRMD(75, 0)
	require.NoError(t, err)
	assert.True(t, rmd.Equal(dec("10000")), rmd.String())

	rmd, err = acct.CalculateRMD(74, 1955)
	require.NoError(t, err)
	assert.True(t, rmd.Equal(dec("246000").DivRound(dec("25.5"), 20)), rmd.String())
}

func TestApplyGrowthLeavesBasis(t *testing.T) {
	acct, err := NewTaxableAccount("t", dec("1000"), dec("400"), money.DefaultContext)
	require.NoError(t, err)
	acct.ApplyGrowth(dec("0.10"))
	assert.True(t, acct.Balance().Equal(dec("1100")))
	assert.True(t, acct.CostBasis().Equal(dec("400")))
}
