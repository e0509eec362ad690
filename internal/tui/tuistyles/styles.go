// Package tuistyles holds the shared palette and lipgloss styles used by the
// TUI and its scenes and components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/drawdown/internal/output"
)

var (
	ColorPrimary   = lipgloss.Color("39")
	ColorSecondary = lipgloss.Color("141")
	ColorAccent    = lipgloss.Color("214")
	ColorSuccess   = lipgloss.Color("42")
	ColorDanger    = lipgloss.Color("196")
	ColorWarning   = lipgloss.Color("220")
	ColorInfo      = lipgloss.Color("75")

	ColorForeground = lipgloss.Color("252")
	ColorMuted      = lipgloss.Color("245")
	ColorBorder     = lipgloss.Color("238")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorPrimary)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorForeground).
				Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	DangerStyle  = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
)

// MetricTrendStyle colors a trend green when positive and red otherwise.
func MetricTrendStyle(positive bool) lipgloss.Style {
	if positive {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

func TrendIndicator(positive bool) string {
	if positive {
		return "▲"
	}
	return "▼"
}

// RiskStyle picks a color for a Monte Carlo success rate.
func RiskStyle(successRate decimal.Decimal) lipgloss.Style {
	switch output.RiskLevel(successRate) {
	case "LOW":
		return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	case "MODERATE":
		return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	}
}

// FormatCurrency renders whole-dollar amounts for compact tables.
func FormatCurrency(d decimal.Decimal) string {
	return output.FormatCurrency(d.Round(0))
}
