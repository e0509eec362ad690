package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status used for brackets and thresholds.
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJointly  FilingStatus = "married-filing-jointly"
	FilingHeadOfHousehold FilingStatus = "head-of-household"
)

// UnmarshalText accepts any case and underscores in place of hyphens, so
// "married_filing_jointly" reads as FilingMarriedJointly.
func (fs *FilingStatus) UnmarshalText(text []byte) error {
	*fs = FilingStatus(normalizeEnum(string(text)))
	return nil
}

// normalizeEnum lower-cases s and spells word separators with hyphens.
func normalizeEnum(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}

// Valid reports whether fs is one of the supported statuses.
func (fs FilingStatus) Valid() bool {
	switch fs {
	case FilingSingle, FilingMarriedJointly, FilingHeadOfHousehold:
		return true
	}
	return false
}

// AccountType tags the tax treatment of an account.
type AccountType string

const (
	AccountTaxable     AccountType = "taxable"
	AccountTraditional AccountType = "traditional"
	AccountRoth        AccountType = "roth"
)

func (at AccountType) Valid() bool {
	switch at {
	case AccountTaxable, AccountTraditional, AccountRoth:
		return true
	}
	return false
}

// IncomeType classifies the taxable character of a withdrawal.
type IncomeType string

const (
	IncomeLongTermCapitalGain IncomeType = "long_term_capital_gain"
	IncomeOrdinary            IncomeType = "ordinary_income"
	IncomeTaxFree             IncomeType = "tax_free"
)

// UserProfile describes the retiree.
type UserProfile struct {
	BirthYear     int          `yaml:"birth_year" json:"birthYear"`
	RetirementAge int          `yaml:"retirement_age" json:"retirementAge"`
	FilingStatus  FilingStatus `yaml:"filing_status" json:"filingStatus"`
}

// Validate checks the profile fields.
func (p *UserProfile) Validate() error {
	if p.BirthYear <= 0 {
		return fmt.Errorf("birth_year must be positive, got %d", p.BirthYear)
	}
	if p.RetirementAge <= 0 {
		return fmt.Errorf("retirement_age must be positive, got %d", p.RetirementAge)
	}
	if !p.FilingStatus.Valid() {
		return fmt.Errorf("filing_status %q: %w", p.FilingStatus, ErrUnknownValue)
	}
	return nil
}

// SSAIncome is the Social Security benefit election.
type SSAIncome struct {
	FRAMonthlyBenefit decimal.Decimal `yaml:"fra_monthly_benefit" json:"fraMonthlyBenefit"`
	ClaimingAge       int             `yaml:"claiming_age" json:"claimingAge"`
	COLARate          decimal.Decimal `yaml:"cola_rate" json:"colaRate"`
}

// Validate checks the claiming age range and that amounts are non-negative.
func (s *SSAIncome) Validate() error {
	if s.ClaimingAge < 62 || s.ClaimingAge > 70 {
		return fmt.Errorf("claiming_age %d: %w", s.ClaimingAge, ErrInvalidClaimAge)
	}
	if s.FRAMonthlyBenefit.IsNegative() {
		return fmt.Errorf("fra_monthly_benefit: %w", ErrNegativeAmount)
	}
	return nil
}

// AccountDefinition is the input description of one account. Live account
// state is built from it at the start of each run.
type AccountDefinition struct {
	ID        string           `yaml:"id" json:"id"`
	Nickname  string           `yaml:"nickname,omitempty" json:"nickname,omitempty"`
	Type      AccountType      `yaml:"type" json:"type"`
	Balance   decimal.Decimal  `yaml:"balance" json:"balance"`
	CostBasis *decimal.Decimal `yaml:"cost_basis,omitempty" json:"costBasis,omitempty"`
}

// Validate checks identity, type, balance, and taxable cost basis.
func (a *AccountDefinition) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("account id is required")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("account %s type %q: %w", a.ID, a.Type, ErrUnknownValue)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("account %s balance: %w", a.ID, ErrNegativeAmount)
	}
	if a.Type == AccountTaxable && a.CostBasis != nil {
		if a.CostBasis.IsNegative() || a.CostBasis.GreaterThan(a.Balance) {
			return fmt.Errorf("account %s cost basis %s: %w", a.ID, a.CostBasis.String(), ErrInvalidCostBasis)
		}
	}
	return nil
}

// Scenario is everything a projection run needs.
type Scenario struct {
	Name           string              `yaml:"name" json:"name"`
	StartYear      int                 `yaml:"start_year,omitempty" json:"startYear,omitempty"`
	Profile        *UserProfile        `yaml:"profile" json:"profile"`
	Accounts       []AccountDefinition `yaml:"accounts" json:"accounts"`
	SocialSecurity *SSAIncome          `yaml:"social_security,omitempty" json:"socialSecurity,omitempty"`
	Policy         *WithdrawalPolicy   `yaml:"policy" json:"policy"`
}

// Validate rejects scenarios that cannot be simulated.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return ErrMissingName
	}
	if s.Profile == nil {
		return ErrMissingProfile
	}
	if err := s.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if len(s.Accounts) == 0 {
		return ErrNoAccounts
	}
	seen := make(map[string]bool, len(s.Accounts))
	for i := range s.Accounts {
		if err := s.Accounts[i].Validate(); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		if seen[s.Accounts[i].ID] {
			return fmt.Errorf("account %s: %w", s.Accounts[i].ID, ErrDuplicateAccount)
		}
		seen[s.Accounts[i].ID] = true
	}
	if s.SocialSecurity != nil {
		if err := s.SocialSecurity.Validate(); err != nil {
			return fmt.Errorf("social_security: %w", err)
		}
	}
	if s.Policy == nil {
		return ErrMissingPolicy
	}
	if err := s.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}

// FirstYear is the first simulated calendar year: StartYear when set,
// otherwise the year the profile reaches retirement age.
func (s *Scenario) FirstYear() int {
	if s.StartYear > 0 {
		return s.StartYear
	}
	if s.Profile == nil {
		return 0
	}
	return s.Profile.BirthYear + s.Profile.RetirementAge
}

// DeepCopy returns a copy of s that shares no pointers or slices with it.
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}
	c := *s
	if s.Profile != nil {
		p := *s.Profile
		c.Profile = &p
	}
	if s.Accounts != nil {
		c.Accounts = make([]AccountDefinition, len(s.Accounts))
		for i, a := range s.Accounts {
			if a.CostBasis != nil {
				basis := *a.CostBasis
				a.CostBasis = &basis
			}
			c.Accounts[i] = a
		}
	}
	if s.SocialSecurity != nil {
		ss := *s.SocialSecurity
		c.SocialSecurity = &ss
	}
	if s.Policy != nil {
		c.Policy = s.Policy.DeepCopy()
	}
	return &c
}
