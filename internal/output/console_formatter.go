package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter prints a one-screen summary per scenario.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, headingStyle.Render("RETIREMENT SCENARIO SUMMARY"))
	fmt.Fprintln(&buf, "===========================")

	if mc := report.MonteCarlo; mc != nil {
		fmt.Fprintf(&buf, "Monte Carlo %s: %s success over %d trials (risk %s)\n",
			mc.ScenarioName, FormatPercentage(mc.SuccessRate), mc.NumRuns, RiskLevel(mc.SuccessRate))
		fmt.Fprintf(&buf, "  P10 %s | Median %s | P90 %s\n",
			FormatCurrency(mc.Percentile10Value), FormatCurrency(mc.MedianFinalValue), FormatCurrency(mc.Percentile90Value))
		return buf.Bytes(), nil
	}

	for _, res := range report.Projections {
		outcome := successStyle.Render("lasts")
		if !res.Success {
			outcome = failureStyle.Render(fmt.Sprintf("depleted %d", *res.FailureYear))
		}
		fmt.Fprintf(&buf, "%-24s %-14s final %s, tax %s\n",
			res.ScenarioName, outcome, FormatCurrency(res.FinalPortfolioValue), FormatCurrency(res.TotalTaxesPaid))
		if len(res.Plans) > 0 {
			first := res.Plans[0]
			fmt.Fprintf(&buf, "  First year net income: %s (withdrawal need %s)\n",
				FormatCurrency(first.TotalNetIncome), FormatCurrency(first.WithdrawalNeed))
		}
	}
	return buf.Bytes(), nil
}
