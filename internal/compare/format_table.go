package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 30
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "1st Year Net",
		numWidth, "Lifetime Net",
		numWidth, "Funded",
		numWidth, "Final Value"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 90) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Lifetime Income:  %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.IncomeDiffFromBase),
				tf.formatDecimal(alt.IncomeDiffFromBase.Abs()),
				alt.IncomePctFromBase.StringFixed(1)))

			if alt.YearsFundedDiff != 0 {
				sign := "+"
				if alt.YearsFundedDiff < 0 {
					sign = ""
				}
				sb.WriteString(fmt.Sprintf("  Years Funded:     %s%d years\n", sign, alt.YearsFundedDiff))
			}

			if !alt.FinalDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Final Value:      %s$%s\n",
					tf.deltaSymbol(alt.FinalDiffFromBase),
					tf.formatDecimal(alt.FinalDiffFromBase.Abs())))
			}

			if !alt.TaxDiffFromBase.IsZero() {
				// lower taxes read as a gain
				sb.WriteString(fmt.Sprintf("  Tax Impact:       %s$%s\n",
					tf.deltaSymbol(alt.TaxDiffFromBase.Neg()),
					tf.formatDecimal(alt.TaxDiffFromBase.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 90) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	funded := fmt.Sprintf("%d years", result.YearsFunded)
	if !result.Success && result.FailureYear != nil {
		funded = fmt.Sprintf("ends %d", *result.FailureYear)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.FirstYearNetIncome),
		numWidth, "$"+tf.formatDecimal(result.LifetimeNetIncome),
		numWidth, funded,
		numWidth, "$"+tf.formatDecimal(result.FinalPortfolio))
}

// formatDecimal abbreviates to thousands or millions.
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact renders one line: each alternative's lifetime income change.
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		incomeChange := "="
		if alt.IncomeDiffFromBase.IsPositive() {
			incomeChange = fmt.Sprintf("+$%s", tf.formatDecimal(alt.IncomeDiffFromBase))
		} else if alt.IncomeDiffFromBase.IsNegative() {
			incomeChange = fmt.Sprintf("-$%s", tf.formatDecimal(alt.IncomeDiffFromBase.Abs()))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, incomeChange))
	}

	return sb.String()
}
