package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/drawdown/internal/output"
)

// TableFormatter renders solver results as text.
type TableFormatter struct{}

func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&sb, "Target:     %s\n", result.Target)
	if result.Goal != "" {
		fmt.Fprintf(&sb, "Goal:       %s\n", result.Goal)
	}
	fmt.Fprintf(&sb, "Status:     %s\n", formatStatus(result))
	fmt.Fprintf(&sb, "Iterations: %d (%s)\n\n", result.Iterations, result.ConvergenceInfo)

	if !result.Success {
		sb.WriteString("No setting in the search range sustains the plan.\n")
		return sb.String()
	}

	sb.WriteString("OPTIMAL SETTING\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&sb, "  %s\n\n", formatSetting(result))

	sb.WriteString("PROJECTED OUTCOME\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&sb, "  First Year Net Income:  %s\n", output.FormatCurrency(result.FirstYearNetIncome))
	fmt.Fprintf(&sb, "  Lifetime Net Income:    %s (%s vs. current plan)\n",
		output.FormatCurrency(result.LifetimeNetIncome), formatDelta(result.IncomeDiffFromBase.StringFixed(0)))
	fmt.Fprintf(&sb, "  Years Funded:           %d\n", result.YearsFunded)
	fmt.Fprintf(&sb, "  Final Portfolio:        %s\n", output.FormatCurrency(result.FinalPortfolio))
	fmt.Fprintf(&sb, "  Lifetime Taxes:         %s (%s vs. current plan)\n",
		output.FormatCurrency(result.LifetimeTaxes), formatDelta(result.TaxDiffFromBase.StringFixed(0)))
	return sb.String()
}

// FormatMultiDimensional renders a summary table of every target.
func (tf *TableFormatter) FormatMultiDimensional(multi *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS: ALL TARGETS\n")
	sb.WriteString(strings.Repeat("=", 86) + "\n\n")
	fmt.Fprintf(&sb, "%-18s %-28s %14s %8s %14s\n", "Target", "Optimal Setting", "Lifetime Net", "Years", "Taxes")
	sb.WriteString(strings.Repeat("-", 86) + "\n")
	for i := range multi.Results {
		r := &multi.Results[i]
		setting := "none sustainable"
		if r.Success {
			setting = formatSetting(r)
		}
		fmt.Fprintf(&sb, "%-18s %-28s %14s %8d %14s\n",
			truncate(string(r.Target), 18), truncate(setting, 28),
			output.FormatCurrency(r.LifetimeNetIncome), r.YearsFunded, output.FormatCurrency(r.LifetimeTaxes))
	}

	if len(multi.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 86) + "\n")
		for _, rec := range multi.Recommendations {
			fmt.Fprintf(&sb, "• %s\n", rec)
		}
	}
	return sb.String()
}

// JSONFormatter renders solver results as JSON.
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) FormatMultiDimensional(multi *MultiDimensionalResult) (string, error) {
	return jf.marshal(multi)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatStatus(result *OptimizationResult) string {
	if result.Success {
		return "✓ Found"
	}
	return "⚠ Not found"
}

func formatSetting(r *OptimizationResult) string {
	switch {
	case r.OptimalTargetIncome != nil:
		return "Target income " + output.FormatCurrency(*r.OptimalTargetIncome) + "/yr"
	case r.OptimalWithdrawalRate != nil:
		return "Withdrawal rate " + output.FormatPercentage(r.OptimalWithdrawalRate.Shift(2))
	case r.OptimalSSAge != nil:
		return fmt.Sprintf("Claim Social Security at %d", *r.OptimalSSAge)
	case r.OptimalStrategy != "":
		return "Strategy " + r.OptimalStrategy
	case r.OptimalDelayYears != nil:
		return fmt.Sprintf("Retire %d year%s later", *r.OptimalDelayYears, plural(*r.OptimalDelayYears))
	}
	return "-"
}

func formatDelta(s string) string {
	if strings.HasPrefix(s, "-") {
		return "-$" + strings.TrimPrefix(s, "-")
	}
	return "+$" + s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
