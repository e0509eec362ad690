package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

var csvHeader = []string{
	"Scenario",
	"Type",
	"Success",
	"Years Funded",
	"First Year Net Income",
	"Lifetime Net Income",
	"Final Portfolio",
	"Lifetime Taxes",
	"Income Diff from Base",
	"Income % Change",
	"Years Funded Diff",
	"Final Diff from Base",
	"Tax Diff from Base",
}

func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(csvHeader); err != nil {
		return "", err
	}
	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.FormatBool(result.Success),
		strconv.Itoa(result.YearsFunded),
		result.FirstYearNetIncome.StringFixed(2),
		result.LifetimeNetIncome.StringFixed(2),
		result.FinalPortfolio.StringFixed(2),
		result.LifetimeTaxes.StringFixed(2),
		result.IncomeDiffFromBase.StringFixed(2),
		result.IncomePctFromBase.StringFixed(2),
		strconv.Itoa(result.YearsFundedDiff),
		result.FinalDiffFromBase.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
	}
}
