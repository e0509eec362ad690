package calculation

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/pkg/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets, standard deductions and capital-gain thresholds are
//    the 2024 figures and are applied to every projection year unindexed.
// 2. No additional standard deduction for age 65+ and no itemizing.
// 3. Qualified dividends and long-term gains share the 0/15/20% schedule and
//    are stacked on top of ordinary taxable income.
// 4. Social Security taxation follows the Publication 915 worksheet.
// 5. No state or local tax.

// TaxBracket is one progressive bracket. A zero Max means no ceiling.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// FilingRules holds every filing-status-dependent threshold.
type FilingRules struct {
	StandardDeduction decimal.Decimal
	Brackets          []TaxBracket
	// Preferential-rate ceilings on total taxable income.
	ZeroRateCeiling    decimal.Decimal
	FifteenRateCeiling decimal.Decimal
	// Social Security base amounts and the cap on the 50% tier.
	SSBase1         decimal.Decimal
	SSBase2         decimal.Decimal
	SSAdditionalCap decimal.Decimal
}

// FederalTaxCalculator computes federal income tax. It holds no mutable
// state and is safe for concurrent use.
type FederalTaxCalculator struct {
	Year  int
	rules map[domain.FilingStatus]FilingRules
}

var (
	rateZero      = decimal.Zero
	rateFifteen   = money.MustParse("0.15")
	rateTwenty    = money.MustParse("0.20")
	halfRate      = money.MustParse("0.5")
	eightyFiveSS  = money.MustParse("0.85")
	ordinaryRates = []decimal.Decimal{
		money.MustParse("0.10"), money.MustParse("0.12"), money.MustParse("0.22"), money.MustParse("0.24"),
		money.MustParse("0.32"), money.MustParse("0.35"), money.MustParse("0.37"),
	}
)

// brackets builds the seven contiguous brackets from six upper edges.
func brackets(edges ...int64) []TaxBracket {
	out := make([]TaxBracket, 0, len(ordinaryRates))
	lower := decimal.Zero
	for i, rate := range ordinaryRates {
		upper := decimal.Zero
		if i < len(edges) {
			upper = decimal.NewFromInt(edges[i])
		}
		out = append(out, TaxBracket{Min: lower, Max: upper, Rate: rate})
		lower = upper
	}
	return out
}

// NewFederalTaxCalculator2024 creates a calculator with 2024 federal law.
func NewFederalTaxCalculator2024() *FederalTaxCalculator {
	single := FilingRules{
		StandardDeduction:  decimal.NewFromInt(14600),
		Brackets:           brackets(11600, 47150, 100525, 191950, 243725, 609350),
		ZeroRateCeiling:    decimal.NewFromInt(47025),
		FifteenRateCeiling: decimal.NewFromInt(518900),
		SSBase1:            decimal.NewFromInt(25000),
		SSBase2:            decimal.NewFromInt(34000),
		SSAdditionalCap:    decimal.NewFromInt(4500),
	}
	joint := FilingRules{
		StandardDeduction:  decimal.NewFromInt(29200),
		Brackets:           brackets(23200, 94300, 201050, 383900, 487450, 731200),
		ZeroRateCeiling:    decimal.NewFromInt(94050),
		FifteenRateCeiling: decimal.NewFromInt(583750),
		SSBase1:            decimal.NewFromInt(32000),
		SSBase2:            decimal.NewFromInt(44000),
		SSAdditionalCap:    decimal.NewFromInt(6000),
	}
	head := FilingRules{
		StandardDeduction:  decimal.NewFromInt(21900),
		Brackets:           brackets(16550, 63100, 100500, 191950, 243700, 609350),
		ZeroRateCeiling:    decimal.NewFromInt(63000),
		FifteenRateCeiling: decimal.NewFromInt(551350),
		SSBase1:            decimal.NewFromInt(25000),
		SSBase2:            decimal.NewFromInt(34000),
		SSAdditionalCap:    decimal.NewFromInt(4500),
	}
	return &FederalTaxCalculator{
		Year: 2024,
		rules: map[domain.FilingStatus]FilingRules{
			domain.FilingSingle:          single,
			domain.FilingMarriedJointly:  joint,
			domain.FilingHeadOfHousehold: head,
		},
	}
}

// Rules returns the thresholds for status.
func (ftc *FederalTaxCalculator) Rules(status domain.FilingStatus) (FilingRules, error) {
	r, ok := ftc.rules[status]
	if !ok {
		return FilingRules{}, fmt.Errorf("filing status %q: %w", status, domain.ErrUnknownValue)
	}
	return r, nil
}

// Calculate computes AGI, MAGI, taxable income and tax for one year.
func (ftc *FederalTaxCalculator) Calculate(in domain.TaxInput) (domain.TaxResult, error) {
	rules, err := ftc.Rules(in.FilingStatus)
	if err != nil {
		return domain.TaxResult{}, err
	}

	preferentialIncome := in.QualifiedDividends.Add(in.LongTermCapitalGains)
	taxableSS := taxableSocialSecurity(in, rules)

	agi := in.OrdinaryIncome.Add(preferentialIncome).Add(taxableSS)
	taxable := money.Floor0(agi.Sub(rules.StandardDeduction))

	preferentialPortion := money.Min(taxable, money.Floor0(preferentialIncome))
	ordinaryPortion := taxable.Sub(preferentialPortion)

	ordinaryTax := ordinaryBracketTax(ordinaryPortion, rules.Brackets)
	preferentialTax := stackedPreferentialTax(ordinaryPortion, preferentialPortion, rules)

	return domain.TaxResult{
		AGI:                   agi,
		MAGI:                  agi.Add(in.TaxExemptInterest),
		TaxableSocialSecurity: taxableSS,
		TaxableIncome:         taxable,
		OrdinaryTax:           ordinaryTax,
		PreferentialTax:       preferentialTax,
		TotalTax:              ordinaryTax.Add(preferentialTax),
	}, nil
}

// TaxableSocialSecurity returns the portion of gross benefits included in AGI.
func (ftc *FederalTaxCalculator) TaxableSocialSecurity(in domain.TaxInput) (decimal.Decimal, error) {
	rules, err := ftc.Rules(in.FilingStatus)
	if err != nil {
		return decimal.Zero, err
	}
	return taxableSocialSecurity(in, rules), nil
}

// CalculateOrdinaryTax fills the brackets for status with amount.
func (ftc *FederalTaxCalculator) CalculateOrdinaryTax(amount decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, error) {
	rules, err := ftc.Rules(status)
	if err != nil {
		return decimal.Zero, err
	}
	return ordinaryBracketTax(amount, rules.Brackets), nil
}

func taxableSocialSecurity(in domain.TaxInput, rules FilingRules) decimal.Decimal {
	ss := in.SocialSecurityGross
	if !ss.IsPositive() {
		return decimal.Zero
	}
	halfSS := ss.Mul(halfRate)
	combined := in.OrdinaryIncome.
		Add(in.QualifiedDividends).
		Add(in.LongTermCapitalGains).
		Add(in.TaxExemptInterest).
		Add(halfSS)

	switch {
	case combined.LessThanOrEqual(rules.SSBase1):
		return decimal.Zero
	case combined.LessThanOrEqual(rules.SSBase2):
		return money.Min(halfSS, combined.Sub(rules.SSBase1).Mul(halfRate))
	default:
		tier2 := combined.Sub(rules.SSBase2).Mul(eightyFiveSS)
		tier1 := money.Min(rules.SSAdditionalCap, halfSS)
		return money.Min(ss.Mul(eightyFiveSS), tier2.Add(tier1))
	}
}

func ordinaryBracketTax(amount decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range brackets {
		if amount.LessThanOrEqual(b.Min) {
			break
		}
		top := amount
		if !b.Max.IsZero() {
			top = money.Min(amount, b.Max)
		}
		total = total.Add(top.Sub(b.Min).Mul(b.Rate))
	}
	return total
}

// stackedPreferentialTax taxes the preferential slice as if it sat on top of
// the ordinary slice of taxable income.
func stackedPreferentialTax(ordinary, preferential decimal.Decimal, rules FilingRules) decimal.Decimal {
	if !preferential.IsPositive() {
		return decimal.Zero
	}
	position := ordinary
	remaining := preferential
	tax := decimal.Zero

	for _, tier := range []struct {
		ceiling decimal.Decimal
		rate    decimal.Decimal
	}{
		{rules.ZeroRateCeiling, rateZero},
		{rules.FifteenRateCeiling, rateFifteen},
	} {
		room := money.Floor0(tier.ceiling.Sub(position))
		slice := money.Min(remaining, room)
		tax = tax.Add(slice.Mul(tier.rate))
		remaining = remaining.Sub(slice)
		position = position.Add(slice)
		if !remaining.IsPositive() {
			return tax
		}
	}
	return tax.Add(remaining.Mul(rateTwenty))
}
