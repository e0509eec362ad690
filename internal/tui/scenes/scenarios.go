package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/output"
	"github.com/rgehrsitz/drawdown/internal/tui/components"
	"github.com/rgehrsitz/drawdown/internal/tui/tuimsg"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

var (
	keyUp         = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	keyDown       = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	keySelect     = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "project"))
	keyMonteCarlo = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "monte carlo"))
	keyTop        = key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top"))
	keyBottom     = key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom"))
)

// ScenariosModel represents the scenarios browsing scene
type ScenariosModel struct {
	scenarios     []domain.Scenario
	selectedIndex int
	cards         []*components.ScenarioCard
	width         int
	height        int
}

func NewScenariosModel() *ScenariosModel {
	return &ScenariosModel{}
}

// SetScenarios replaces the list and rebuilds its cards.
func (m *ScenariosModel) SetScenarios(scenarios []domain.Scenario) {
	m.scenarios = scenarios
	m.cards = make([]*components.ScenarioCard, len(scenarios))
	for i := range scenarios {
		m.cards[i] = components.NewScenarioCard(&scenarios[i])
	}
	if m.selectedIndex >= len(m.scenarios) {
		m.selectedIndex = 0
	}
}

func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedScenario returns the currently selected scenario name
func (m *ScenariosModel) SelectedScenario() string {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.scenarios) {
		return m.scenarios[m.selectedIndex].Name
	}
	return ""
}

func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, keyDown):
		if m.selectedIndex < len(m.scenarios)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, keyTop):
		m.selectedIndex = 0
	case key.Matches(keyMsg, keyBottom):
		m.selectedIndex = max(0, len(m.scenarios)-1)
	case key.Matches(keyMsg, keySelect):
		if name := m.SelectedScenario(); name != "" {
			return m, func() tea.Msg { return tuimsg.ScenarioSelectedMsg{ScenarioName: name} }
		}
	case key.Matches(keyMsg, keyMonteCarlo):
		if name := m.SelectedScenario(); name != "" {
			return m, func() tea.Msg { return tuimsg.MonteCarloRequestedMsg{ScenarioName: name} }
		}
	}
	return m, nil
}

func (m *ScenariosModel) View() string {
	if len(m.scenarios) == 0 {
		return tuistyles.BorderStyle.Render("No scenarios available.\n\nPress ESC to return to home.")
	}

	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(44).
		Render(tuistyles.SectionStyle.Render("Scenarios") + "\n\n" + components.ScenarioListCompact(m.cards, m.selectedIndex))

	content := lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", renderScenarioDetails(&m.scenarios[m.selectedIndex]))
	return content + "\n\n" + helpLine(keyUp, keyDown, keySelect, keyMonteCarlo, keyTop, keyBottom)
}

func renderScenarioDetails(s *domain.Scenario) string {
	label := tuistyles.MetricLabelStyle.Bold(true)
	var b strings.Builder

	b.WriteString(tuistyles.SelectedItemStyle.Render(s.Name))
	b.WriteString("\n\n")

	if p := s.Profile; p != nil {
		b.WriteString(label.Render("Profile"))
		fmt.Fprintf(&b, "\n  Born %d, retires at %d (first year %d)\n  Filing status: %s\n",
			p.BirthYear, p.RetirementAge, s.FirstYear(), p.FilingStatus)
	}

	b.WriteString("\n")
	b.WriteString(label.Render("Accounts"))
	b.WriteString("\n")
	for _, a := range s.Accounts {
		info := domain.AccountInfo{ID: a.ID, Nickname: a.Nickname, Type: a.Type}
		fmt.Fprintf(&b, "  • %-18s %-12s %s", info.Label(), a.Type, tuistyles.FormatCurrency(a.Balance))
		if a.CostBasis != nil {
			fmt.Fprintf(&b, " (basis %s)", tuistyles.FormatCurrency(*a.CostBasis))
		}
		b.WriteString("\n")
	}

	if pol := s.Policy; pol != nil {
		b.WriteString("\n")
		b.WriteString(label.Render("Policy"))
		fmt.Fprintf(&b, "\n  Strategy: %s\n", pol.Strategy())
		if pol.TargetNetIncome != nil {
			fmt.Fprintf(&b, "  Target net income: %s\n", tuistyles.FormatCurrency(*pol.TargetNetIncome))
		}
		if pol.WithdrawalRate != nil {
			fmt.Fprintf(&b, "  Withdrawal rate: %s\n", output.FormatPercentage(pol.WithdrawalRate.Shift(2)))
		}
		if pol.MinRequiredIncome != nil {
			fmt.Fprintf(&b, "  Income floor: %s\n", tuistyles.FormatCurrency(*pol.MinRequiredIncome))
		}
		if pol.InflationAdjust {
			fmt.Fprintf(&b, "  Inflation: %s\n", output.FormatPercentage(pol.InflationRate.Shift(2)))
		}
	}

	if ss := s.SocialSecurity; ss != nil {
		b.WriteString("\n")
		b.WriteString(label.Render("Social Security"))
		fmt.Fprintf(&b, "\n  %s/month at FRA, claimed at %d\n", tuistyles.FormatCurrency(ss.FRAMonthlyBenefit), ss.ClaimingAge)
	}

	b.WriteString("\n")
	b.WriteString(tuistyles.InfoStyle.Italic(true).Render("Enter projects this scenario, m runs Monte Carlo"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorPrimary).
		Padding(1, 2).
		Width(64).
		Render(b.String())
}

// helpLine renders key bindings the way the status bar does.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		h := kb.Help()
		parts[i] = tuistyles.StatusKeyStyle.Render(h.Key) + " " + h.Desc
	}
	return tuistyles.HelpStyle.Render(strings.Join(parts, " • "))
}
