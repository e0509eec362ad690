package calculation

import (
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// FullRetirementAge is the Social Security full retirement age.
const FullRetirementAge = 67

const (
	earliestClaimingAge = 62
	latestCreditAge     = 70
)

var (
	earlyReductionPerMonth = money.MustParse("0.005556") // 5/9 of 1%
	delayCreditPerMonth    = money.MustParse("0.006667") // 2/3 of 1%
	monthsPerYear          = decimal.NewFromInt(12)
)

// SocialSecurityCalculator returns the annual benefit paid at a given age
// for one claiming election.
type SocialSecurityCalculator struct {
	income domain.SSAIncome
	ctx    money.Context

	baseAnnual *decimal.Decimal
}

// NewSocialSecurityCalculator creates a calculator for income.
func NewSocialSecurityCalculator(income domain.SSAIncome, ctx money.Context) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{income: income, ctx: ctx}
}

// AdjustmentFactor returns the multiplier applied to the FRA benefit for
// claiming early or late. Credits stop accruing at 70.
func (ssc *SocialSecurityCalculator) AdjustmentFactor() decimal.Decimal {
	age := ssc.income.ClaimingAge
	switch {
	case age < FullRetirementAge:
		if age < earliestClaimingAge {
			age = earliestClaimingAge
		}
		months := decimal.NewFromInt(int64((FullRetirementAge - age) * 12))
		return money.One.Sub(earlyReductionPerMonth.Mul(months))
	case age > FullRetirementAge:
		if age > latestCreditAge {
			age = latestCreditAge
		}
		months := decimal.NewFromInt(int64((age - FullRetirementAge) * 12))
		return money.One.Add(delayCreditPerMonth.Mul(months))
	default:
		return money.One
	}
}

// BaseAnnualBenefit is the first-year annual benefit at the claiming age.
// It is computed once per calculator.
func (ssc *SocialSecurityCalculator) BaseAnnualBenefit() decimal.Decimal {
	if ssc.baseAnnual == nil {
		base := ssc.income.FRAMonthlyBenefit.Mul(monthsPerYear).Mul(ssc.AdjustmentFactor())
		ssc.baseAnnual = &base
	}
	return *ssc.baseAnnual
}

// BenefitAtAge returns the annual benefit received at age, with COLA
// compounded for every year since claiming. Zero before claiming.
func (ssc *SocialSecurityCalculator) BenefitAtAge(age int) decimal.Decimal {
	if age < ssc.income.ClaimingAge {
		return decimal.Zero
	}
	years := age - ssc.income.ClaimingAge
	return ssc.ctx.Round(ssc.BaseAnnualBenefit().Mul(ssc.ctx.Compound(ssc.income.COLARate, years)))
}
