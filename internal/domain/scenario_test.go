package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func validScenario() Scenario {
	return Scenario{
		Name:    "base",
		Profile: &UserProfile{BirthYear: 1960, RetirementAge: 65, FilingStatus: FilingSingle},
		Accounts: []AccountDefinition{
			{ID: "brokerage", Type: AccountTaxable, Balance: decimal.NewFromInt(100000), CostBasis: d("60000")},
			{ID: "ira", Type: AccountTraditional, Balance: decimal.NewFromInt(400000)},
		},
		Policy: &WithdrawalPolicy{WithdrawalRate: d("0.04")},
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr error
	}{
		{"valid", func(s *Scenario) {}, nil},
		{"missing name", func(s *Scenario) { s.Name = "" }, ErrMissingName},
		{"missing profile", func(s *Scenario) { s.Profile = nil }, ErrMissingProfile},
		{"missing policy", func(s *Scenario) { s.Policy = nil }, ErrMissingPolicy},
		{"no accounts", func(s *Scenario) { s.Accounts = nil }, ErrNoAccounts},
		{"duplicate account", func(s *Scenario) { s.Accounts[1].ID = "brokerage" }, ErrDuplicateAccount},
		{"basis above balance", func(s *Scenario) { s.Accounts[0].CostBasis = d("100001") }, ErrInvalidCostBasis},
		{"negative balance", func(s *Scenario) { s.Accounts[1].Balance = decimal.NewFromInt(-1) }, ErrNegativeAmount},
		{"unknown account type", func(s *Scenario) { s.Accounts[1].Type = "annuity" }, ErrUnknownValue},
		{"unknown filing status", func(s *Scenario) { s.Profile.FilingStatus = "widow" }, ErrUnknownValue},
		{"no need driver", func(s *Scenario) { s.Policy = &WithdrawalPolicy{} }, ErrNoNeedDriver},
		{"negative target", func(s *Scenario) { s.Policy.TargetNetIncome = d("-1") }, ErrNegativeAmount},
		{"unknown strategy", func(s *Scenario) { s.Policy.SequencingStrategy = "bracket-fill" }, ErrUnknownValue},
		{"claim age too early", func(s *Scenario) {
			s.SocialSecurity = &SSAIncome{FRAMonthlyBenefit: decimal.NewFromInt(2000), ClaimingAge: 61}
		}, ErrInvalidClaimAge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestScenarioFirstYear(t *testing.T) {
	s := validScenario()
	assert.Equal(t, 2025, s.FirstYear())
	s.StartYear = 2031
	assert.Equal(t, 2031, s.FirstYear())
}

func TestPolicyStrategyDefault(t *testing.T) {
	p := WithdrawalPolicy{}
	assert.Equal(t, StrategyTaxableFirst, p.Strategy())
	p.SequencingStrategy = StrategyProRata
	assert.Equal(t, StrategyProRata, p.Strategy())
}

func TestEnumSpellings(t *testing.T) {
	var doc struct {
		Statuses   []FilingStatus       `yaml:"statuses"`
		Strategies []SequencingStrategy `yaml:"strategies"`
	}
	src := `
statuses: [single, married-filing-jointly, married_filing_jointly, Head_Of_Household]
strategies: [taxable-first, traditional_first, " Pro-Rata ", bogus]
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	assert.Equal(t, []FilingStatus{FilingSingle, FilingMarriedJointly, FilingMarriedJointly, FilingHeadOfHousehold}, doc.Statuses)
	assert.Equal(t, []SequencingStrategy{StrategyTaxableFirst, StrategyTraditionalFirst, StrategyProRata, "bogus"}, doc.Strategies)
	assert.False(t, doc.Strategies[3].Valid())
}

func TestPolicyMinIncomeInflation(t *testing.T) {
	p := WithdrawalPolicy{InflationRate: decimal.RequireFromString("0.03")}
	assert.True(t, p.MinIncomeInflation().Equal(decimal.RequireFromString("0.03")))
	p.MinIncomeInflationRate = d("0.01")
	assert.True(t, p.MinIncomeInflation().Equal(decimal.RequireFromString("0.01")))
}

func TestConfigurationDefaults(t *testing.T) {
	var c Configuration
	c.ApplyDefaults()
	assert.Equal(t, DefaultMaxYears, c.Assumptions.MaxYears)
	assert.True(t, c.Assumptions.ReturnRate.Equal(DefaultReturnRate))
	assert.Equal(t, DefaultRuns, c.MonteCarlo.Runs)
	assert.True(t, c.MonteCarlo.MeanReturn.Equal(DefaultMeanReturn))
	assert.True(t, c.MonteCarlo.Volatility.Equal(DefaultVolatility))

	custom := Configuration{Assumptions: Assumptions{MaxYears: 12}, MonteCarlo: MonteCarloSettings{Runs: 50}}
	custom.ApplyDefaults()
	assert.Equal(t, 12, custom.Assumptions.MaxYears)
	assert.Equal(t, 50, custom.MonteCarlo.Runs)
}

func TestScenarioByName(t *testing.T) {
	c := Configuration{Scenarios: []Scenario{validScenario(), validScenario()}}
	c.Scenarios[1].Name = "alt"

	s, err := c.ScenarioByName("")
	require.NoError(t, err)
	assert.Equal(t, "base", s.Name)

	s, err = c.ScenarioByName("alt")
	require.NoError(t, err)
	assert.Equal(t, "alt", s.Name)

	_, err = c.ScenarioByName("missing")
	assert.Error(t, err)

	_, err = (&Configuration{}).ScenarioByName("")
	assert.Error(t, err)
}

func TestPlanTotals(t *testing.T) {
	plan := WithdrawalPlan{
		Withdrawals: map[string]decimal.Decimal{
			"a": decimal.NewFromInt(100),
			"b": decimal.RequireFromString("0.5"),
		},
		Accounts: []AccountInfo{{ID: "a"}, {ID: "b"}},
	}
	assert.True(t, plan.TotalWithdrawals().Equal(decimal.RequireFromString("100.5")))

	info := AccountInfo{ID: "ira", Type: AccountTraditional}
	assert.Equal(t, "ira", info.Label())
	info.Nickname = "Rollover IRA"
	assert.Equal(t, "Rollover IRA", info.Label())
}

func TestScenarioDeepCopy(t *testing.T) {
	s := validScenario()
	s.SocialSecurity = &SSAIncome{FRAMonthlyBenefit: decimal.NewFromInt(2000), ClaimingAge: 67}
	s.Policy.MinRequiredIncome = d("30000")

	c := s.DeepCopy()
	require.NotSame(t, s.Profile, c.Profile)
	require.NotSame(t, s.Policy, c.Policy)

	c.Profile.RetirementAge = 70
	c.Accounts[0].Balance = decimal.Zero
	*c.Accounts[0].CostBasis = decimal.Zero
	c.SocialSecurity.ClaimingAge = 70
	*c.Policy.WithdrawalRate = decimal.RequireFromString("0.05")
	*c.Policy.MinRequiredIncome = decimal.Zero

	assert.Equal(t, 65, s.Profile.RetirementAge)
	assert.Equal(t, "100000", s.Accounts[0].Balance.String())
	assert.Equal(t, "60000", s.Accounts[0].CostBasis.String())
	assert.Equal(t, 67, s.SocialSecurity.ClaimingAge)
	assert.Equal(t, "0.04", s.Policy.WithdrawalRate.String())
	assert.Equal(t, "30000", s.Policy.MinRequiredIncome.String())

	var nilScenario *Scenario
	assert.Nil(t, nilScenario.DeepCopy())
}
