package domain

import "github.com/shopspring/decimal"

// TaxInput groups a year's income by tax character.
type TaxInput struct {
	OrdinaryIncome       decimal.Decimal `json:"ordinaryIncome"`
	QualifiedDividends   decimal.Decimal `json:"qualifiedDividends"`
	LongTermCapitalGains decimal.Decimal `json:"longTermCapitalGains"`
	SocialSecurityGross  decimal.Decimal `json:"socialSecurityGross"`
	TaxExemptInterest    decimal.Decimal `json:"taxExemptInterest"`
	FilingStatus         FilingStatus    `json:"filingStatus"`
}

// TaxResult is the federal tax computed for one year.
type TaxResult struct {
	AGI                   decimal.Decimal `json:"agi"`
	MAGI                  decimal.Decimal `json:"magi"`
	TaxableSocialSecurity decimal.Decimal `json:"taxableSocialSecurity"`
	TaxableIncome         decimal.Decimal `json:"taxableIncome"`
	OrdinaryTax           decimal.Decimal `json:"ordinaryTax"`
	PreferentialTax       decimal.Decimal `json:"preferentialTax"`
	TotalTax              decimal.Decimal `json:"totalTax"`
}
