package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/tui/tuimsg"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// CompareModel lists the projection of every scenario side by side.
type CompareModel struct {
	results     []*domain.ProjectionResult
	cursorIndex int
	width       int
	height      int
}

func NewCompareModel() *CompareModel {
	return &CompareModel{}
}

func (m *CompareModel) SetResults(results []*domain.ProjectionResult) {
	m.results = results
	if m.cursorIndex >= len(results) {
		m.cursorIndex = 0
	}
}

func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Best returns the scenario with the highest final portfolio among those
// that last the whole horizon, or nil when none do.
func (m *CompareModel) Best() *domain.ProjectionResult {
	var best *domain.ProjectionResult
	for _, r := range m.results {
		if !r.Success {
			continue
		}
		if best == nil || r.FinalPortfolioValue.GreaterThan(best.FinalPortfolioValue) {
			best = r
		}
	}
	return best
}

func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keyUp):
		if m.cursorIndex > 0 {
			m.cursorIndex--
		}
	case key.Matches(keyMsg, keyDown):
		if m.cursorIndex < len(m.results)-1 {
			m.cursorIndex++
		}
	case key.Matches(keyMsg, keySelect):
		if m.cursorIndex < len(m.results) {
			name := m.results[m.cursorIndex].ScenarioName
			return m, func() tea.Msg { return tuimsg.ScenarioSelectedMsg{ScenarioName: name} }
		}
	}
	return m, nil
}

func (m *CompareModel) View() string {
	if len(m.results) == 0 {
		return tuistyles.BorderStyle.Render("No comparison yet.\n\nPress c to project every scenario.")
	}

	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("  %-24s %-18s %14s %14s %14s %14s",
		"Scenario", "Outcome", "Final", "Withdrawn", "Tax", "Tax Rate")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 106))
	b.WriteString("\n")

	best := m.Best()
	for i, r := range m.results {
		outcome := "lasts"
		if !r.Success {
			outcome = fmt.Sprintf("depleted %d", *r.FailureYear)
		}
		rate := decimal.Zero
		if r.TotalWithdrawals.IsPositive() {
			rate = r.TotalTaxesPaid.Div(r.TotalWithdrawals).Shift(2)
		}
		row := fmt.Sprintf("%-24s %-18s %14s %14s %14s %13s%%",
			r.ScenarioName, outcome,
			tuistyles.FormatCurrency(r.FinalPortfolioValue),
			tuistyles.FormatCurrency(r.TotalWithdrawals),
			tuistyles.FormatCurrency(r.TotalTaxesPaid),
			rate.StringFixed(1))

		prefix, style := "  ", tuistyles.UnselectedItemStyle
		if i == m.cursorIndex {
			prefix, style = "▸ ", tuistyles.SelectedItemStyle
		}
		if !r.Success {
			style = tuistyles.DangerStyle
		}
		b.WriteString(style.Render(prefix + row))
		if r == best {
			b.WriteString(tuistyles.SuccessStyle.Render("  ★"))
		}
		b.WriteString("\n")
	}

	table := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Render(strings.TrimRight(b.String(), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("Scenario Comparison"),
		table,
		"",
		helpLine(keyUp, keyDown, keySelect),
	)
}
