package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/drawdown/internal/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const rule = "================================================================================="

// ConsoleVerboseFormatter renders the year-by-year cash-flow report.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, headingStyle.Render("RETIREMENT CASH-FLOW PROJECTION"))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf)
	writeAssumptions(&buf, report.Assumptions)

	if report.MonteCarlo != nil {
		writeMonteCarloSummary(&buf, report.MonteCarlo)
		fmt.Fprintln(&buf, headingStyle.Render("MEDIAN TRIAL"))
		fmt.Fprintln(&buf)
	}

	for i, res := range report.Projections {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, res.ScenarioName)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeProjectionSummary(&buf, res)
		fmt.Fprintln(&buf)
		writeAccountLegend(&buf, res)
		writeYearTable(&buf, res)
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}

func writeAssumptions(w io.Writer, assumptions []string) {
	if len(assumptions) == 0 {
		return
	}
	fmt.Fprintln(w, "KEY ASSUMPTIONS:")
	for _, a := range assumptions {
		fmt.Fprintf(w, "• %s\n", a)
	}
	fmt.Fprintln(w)
}

func writeProjectionSummary(w io.Writer, res *domain.ProjectionResult) {
	status := successStyle.Render("SUCCESS")
	if !res.Success {
		status = failureStyle.Render(fmt.Sprintf("DEPLETED in %d (age %d)", *res.FailureYear, *res.FailureAge))
	}
	fmt.Fprintf(w, "  Outcome:              %s\n", status)
	fmt.Fprintf(w, "  Years Simulated:      %d (from %d)\n", res.YearsSimulated, res.StartYear)
	fmt.Fprintf(w, "  Starting Portfolio:   %s\n", FormatCurrency(res.StartingPortfolioValue))
	fmt.Fprintf(w, "  Final Portfolio:      %s\n", FormatCurrency(res.FinalPortfolioValue))
	fmt.Fprintf(w, "  Total Withdrawals:    %s\n", FormatCurrency(res.TotalWithdrawals))
	fmt.Fprintf(w, "  Total Federal Tax:    %s\n", FormatCurrency(res.TotalTaxesPaid))
}

func writeAccountLegend(w io.Writer, res *domain.ProjectionResult) {
	accounts := res.Accounts()
	if len(accounts) == 0 {
		return
	}
	fmt.Fprintln(w, "ACCOUNTS:")
	for _, a := range accounts {
		fmt.Fprintf(w, "  %-20s %s\n", a.Label(), mutedStyle.Render(string(a.Type)))
	}
	fmt.Fprintln(w)
}

func writeYearTable(w io.Writer, res *domain.ProjectionResult) {
	if len(res.Plans) == 0 {
		fmt.Fprintln(w, "  No years planned.")
		return
	}
	fmt.Fprintf(w, "%-6s %-4s %14s %14s %14s %14s %12s %14s %14s\n",
		"Year", "Age", "Guaranteed", "Need", "RMD", "Withdrawn", "Tax", "Net Income", "Portfolio")
	fmt.Fprintln(w, strings.Repeat("-", 114))
	for _, p := range res.Plans {
		fmt.Fprintf(w, "%-6d %-4d %14s %14s %14s %14s %12s %14s %14s\n",
			p.Year, p.Age,
			FormatCurrency(p.GuaranteedIncome),
			FormatCurrency(p.WithdrawalNeed),
			FormatCurrency(sumRMDs(p)),
			FormatCurrency(p.TotalWithdrawals()),
			FormatCurrency(p.TotalTax),
			FormatCurrency(p.TotalNetIncome),
			FormatCurrency(p.TotalPortfolioValue))
		if p.Shortfall.IsPositive() {
			fmt.Fprintf(w, "       %s\n", failureStyle.Render("shortfall "+FormatCurrency(p.Shortfall)))
		}
	}
}

func writeMonteCarloSummary(w io.Writer, mc *domain.MonteCarloResult) {
	fmt.Fprintln(w, headingStyle.Render("MONTE CARLO SIMULATION: "+mc.ScenarioName))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "  Trials:               %d x %d years\n", mc.NumRuns, mc.MaxYears)
	fmt.Fprintf(w, "  Return Model:         mean %s, volatility %s\n",
		FormatPercentage(mc.MeanReturn.Shift(2)), FormatPercentage(mc.Volatility.Shift(2)))
	fmt.Fprintf(w, "  Success Rate:         %s\n", FormatPercentage(mc.SuccessRate))
	fmt.Fprintf(w, "  Risk Level:           %s\n", RiskLevel(mc.SuccessRate))
	fmt.Fprintf(w, "  10th Percentile:      %s\n", FormatCurrency(mc.Percentile10Value))
	fmt.Fprintf(w, "  Median Final Value:   %s\n", FormatCurrency(mc.MedianFinalValue))
	fmt.Fprintf(w, "  90th Percentile:      %s\n", FormatCurrency(mc.Percentile90Value))
	fmt.Fprintln(w)
}
