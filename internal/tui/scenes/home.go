package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/output"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// HomeModel represents the home dashboard scene
type HomeModel struct {
	config *domain.Configuration
	width  int
	height int
}

func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

func (m *HomeModel) SetConfig(config *domain.Configuration) {
	m.config = config
}

func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update is a no-op; navigation is handled by the parent.
func (m *HomeModel) Update(tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

func (m *HomeModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Drawdown - Retirement Cash-Flow Simulator"))
	b.WriteString("\n\n")

	if m.config == nil {
		b.WriteString(tuistyles.HelpStyle.Render("Loading configuration..."))
		return tuistyles.BorderStyle.Render(b.String())
	}

	b.WriteString(m.renderAssumptions())
	b.WriteString("\n")
	b.WriteString(m.renderScenarios())
	b.WriteString("\n")
	b.WriteString(renderQuickActions())
	return tuistyles.BorderStyle.Render(b.String())
}

func (m *HomeModel) renderAssumptions() string {
	a, mc := m.config.Assumptions, m.config.MonteCarlo

	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Assumptions"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Horizon:         %d years\n", a.MaxYears)
	if len(a.Returns) > 0 {
		fmt.Fprintf(&b, "  Returns:         %d scheduled, then %s\n", len(a.Returns), output.FormatPercentage(a.ReturnRate.Shift(2)))
	} else {
		fmt.Fprintf(&b, "  Return:          %s per year\n", output.FormatPercentage(a.ReturnRate.Shift(2)))
	}
	fmt.Fprintf(&b, "  Monte Carlo:     %d trials, mean %s, volatility %s\n",
		mc.Runs, output.FormatPercentage(mc.MeanReturn.Shift(2)), output.FormatPercentage(mc.Volatility.Shift(2)))
	return b.String()
}

func (m *HomeModel) renderScenarios() string {
	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Scenarios"))
	b.WriteString("\n")

	const shown = 5
	for i, s := range m.config.Scenarios {
		if i == shown {
			b.WriteString(tuistyles.HelpStyle.Render(fmt.Sprintf("  ... and %d more", len(m.config.Scenarios)-shown)))
			b.WriteString("\n")
			break
		}
		b.WriteString(tuistyles.SelectedItemStyle.Render(fmt.Sprintf("  %d. %s", i+1, s.Name)))
		b.WriteString(tuistyles.HelpStyle.Render(fmt.Sprintf(" (%d account%s)", len(s.Accounts), pluralS(len(s.Accounts)))))
		b.WriteString("\n")
	}
	return b.String()
}

func renderQuickActions() string {
	actions := []struct{ key, desc string }{
		{"s", "Browse scenarios and run a projection"},
		{"c", "Compare every scenario side by side"},
		{"m", "Run Monte Carlo for the selected scenario"},
		{"r", "View the last projection"},
		{"?", "Show help"},
	}

	var b strings.Builder
	b.WriteString(tuistyles.SectionStyle.Render("Quick Actions"))
	b.WriteString("\n")
	for _, a := range actions {
		b.WriteString("  ")
		b.WriteString(tuistyles.StatusKeyStyle.Render(a.key))
		b.WriteString("  " + a.desc + "\n")
	}
	return b.String()
}

func pluralS(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
