package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// ScenarioCard displays a compact scenario overview
type ScenarioCard struct {
	Name       string
	Subtitle   string
	Highlights []string
	IsSelected bool
	Width      int
}

// NewScenarioCard summarizes a scenario: its profile, opening balances, and
// withdrawal policy.
func NewScenarioCard(s *domain.Scenario) *ScenarioCard {
	card := &ScenarioCard{Name: s.Name, Width: 40}
	if s.Profile != nil {
		card.Subtitle = fmt.Sprintf("born %d, retires at %d, %s",
			s.Profile.BirthYear, s.Profile.RetirementAge, s.Profile.FilingStatus)
	}

	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	card.AddHighlight(fmt.Sprintf("%d account%s, %s", len(s.Accounts), pluralS(len(s.Accounts)), tuistyles.FormatCurrency(total)))

	if s.Policy != nil {
		card.AddHighlight("strategy " + string(s.Policy.Strategy()))
	}
	if s.SocialSecurity != nil {
		card.AddHighlight(fmt.Sprintf("Social Security at %d", s.SocialSecurity.ClaimingAge))
	}
	return card
}

func (s *ScenarioCard) AddHighlight(highlight string) *ScenarioCard {
	s.Highlights = append(s.Highlights, highlight)
	return s
}

func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

// Render returns the styled scenario card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(s.Name))
	content.WriteString("\n")
	if s.Subtitle != "" {
		content.WriteString(tuistyles.HelpStyle.Italic(true).Render(s.Subtitle))
		content.WriteString("\n")
	}
	for _, h := range s.Highlights {
		content.WriteString(tuistyles.HelpStyle.Render("• " + h))
		content.WriteString("\n")
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(s.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a single-line version
func (s *ScenarioCard) RenderCompact() string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render(s.Name)}
	if len(s.Highlights) > 0 {
		parts = append(parts, tuistyles.HelpStyle.Render("• "+s.Highlights[0]))
	}
	return strings.Join(parts, " ")
}

// ScenarioListCompact renders a selection list with a cursor.
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix, style := "  ", tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix, style = "▸ ", tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}
	return strings.Join(rendered, "\n")
}

func pluralS(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
