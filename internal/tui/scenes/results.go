package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/tui/components"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

const visibleYears = 10

// ResultsModel shows one projection: headline metrics, a balance chart and a
// scrollable year-by-year table.
type ResultsModel struct {
	result *domain.ProjectionResult
	offset int
	width  int
	height int
}

func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult replaces the projection and scrolls back to the first year.
func (m *ResultsModel) SetResult(result *domain.ProjectionResult) {
	m.result = result
	m.offset = 0
}

func (m *ResultsModel) Result() *domain.ProjectionResult {
	return m.result
}

func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.result == nil {
		return m, nil
	}
	last := max(0, len(m.result.Plans)-visibleYears)
	switch {
	case key.Matches(keyMsg, keyUp):
		m.offset = max(0, m.offset-1)
	case key.Matches(keyMsg, keyDown):
		m.offset = min(last, m.offset+1)
	case key.Matches(keyMsg, keyTop):
		m.offset = 0
	case key.Matches(keyMsg, keyBottom):
		m.offset = last
	}
	return m, nil
}

func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.BorderStyle.Render("No results to display.\n\nSelect a scenario and press Enter to run a projection.")
	}
	r := m.result

	status := tuistyles.SuccessStyle.Render(fmt.Sprintf("Lasts all %d years", r.YearsSimulated))
	if !r.Success {
		status = tuistyles.DangerStyle.Render(fmt.Sprintf("Depleted in %d at age %d", *r.FailureYear, *r.FailureAge))
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("Projection: "+r.ScenarioName),
		"  "+status,
	)

	cards := []*components.MetricCard{
		components.NewCurrencyCard("Final Portfolio", r.FinalPortfolioValue).WithChange(r.StartingPortfolioValue, r.FinalPortfolioValue),
		components.NewCurrencyCard("Total Withdrawals", r.TotalWithdrawals),
		components.NewCurrencyCard("Total Federal Tax", r.TotalTaxesPaid),
	}
	if len(r.Plans) > 0 {
		cards = append(cards, components.NewCurrencyCard("First Year Net Income", r.Plans[0].TotalNetIncome))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		components.MetricGrid(cards, 4),
		"",
		components.NewBalanceChart(r).Render(),
		"",
		m.renderYearTable(),
		"",
		helpLine(keyUp, keyDown, keyTop, keyBottom),
	)
}

func (m *ResultsModel) renderYearTable() string {
	plans := m.result.Plans
	if len(plans) == 0 {
		return tuistyles.InfoStyle.Render("No years planned.")
	}

	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-6s %-4s %12s %12s %12s %10s %12s %14s",
		"Year", "Age", "Guaranteed", "Withdrawn", "RMD", "Tax", "Net", "Portfolio")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 90))
	b.WriteString("\n")

	end := min(len(plans), m.offset+visibleYears)
	for i := m.offset; i < end; i++ {
		p := plans[i]
		rmd := decimal.Zero
		for _, v := range p.RMDs {
			rmd = rmd.Add(v)
		}
		row := fmt.Sprintf("%-6d %-4d %12s %12s %12s %10s %12s %14s",
			p.Year, p.Age,
			tuistyles.FormatCurrency(p.GuaranteedIncome),
			tuistyles.FormatCurrency(p.TotalWithdrawals()),
			tuistyles.FormatCurrency(rmd),
			tuistyles.FormatCurrency(p.TotalTax),
			tuistyles.FormatCurrency(p.TotalNetIncome),
			tuistyles.FormatCurrency(p.TotalPortfolioValue))
		if p.Shortfall.IsPositive() {
			row = tuistyles.DangerStyle.Render(row + "  shortfall " + tuistyles.FormatCurrency(p.Shortfall))
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if len(plans) > visibleYears {
		b.WriteString(tuistyles.HelpStyle.Render(fmt.Sprintf("years %d-%d of %d", m.offset+1, end, len(plans))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}
