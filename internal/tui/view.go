package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render(m.spinner.View() + " " + m.loadingMessage))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render("Error: " + m.err.Error() + "\n\nPress any key to continue..."))
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneMonteCarlo:
		content = m.monteCarloModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	body := lipgloss.NewStyle().
		Height(max(0, m.height-4)).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	crumb := m.currentScene.String()
	if m.selectedScenario != "" {
		crumb += " / " + m.selectedScenario
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Drawdown - Retirement Cash-Flow Simulator"),
		SubtitleStyle.Render(crumb),
	)
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("s", "scenarios"),
		formatShortcut("r", "results"),
		formatShortcut("c", "compare"),
		formatShortcut("m", "monte carlo"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	status := strings.Join(shortcuts, " • ")

	if m.config != nil {
		name := SubtitleStyle.Render(m.configPath)
		gap := m.width - lipgloss.Width(status) - lipgloss.Width(name) - 2
		status += strings.Repeat(" ", max(1, gap)) + name
	}
	return StatusBarStyle.Width(m.width).Render(status)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp() string {
	return BorderStyle.Render(`Drawdown projects a retiree's portfolio year by year: guaranteed income,
required minimum distributions, withdrawals in policy order, and federal tax.

KEYBOARD SHORTCUTS:
  h        Home
  s        Scenarios
  r        Last projection
  c        Project and compare every scenario
  m        Monte Carlo for the selected scenario
  ?        This help
  ESC      Go back
  q/Ctrl+C Quit

IN LISTS:
  ↑/k ↓/j  Move
  g / G    Top / bottom
  Enter    Project the highlighted scenario`)
}
