package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// MetricCard displays a single metric with label, value, and optional trend
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend represents a metric's change direction and amount
type Trend struct {
	IsPositive bool
	Change     string
}

func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 28,
	}
}

// NewCurrencyCard creates a card showing a whole-dollar amount.
func NewCurrencyCard(label string, amount decimal.Decimal) *MetricCard {
	return NewMetricCard(label, tuistyles.FormatCurrency(amount))
}

// WithChange adds a trend computed from a starting value to the card's
// amount, e.g. starting portfolio to final portfolio.
func (m *MetricCard) WithChange(from, to decimal.Decimal) *MetricCard {
	delta := to.Sub(from)
	sign := "+"
	if delta.IsNegative() {
		sign = "-"
	}
	return m.WithTrend(!delta.IsNegative(), sign+tuistyles.FormatCurrency(delta.Abs()))
}

func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)

	if m.Trend != nil {
		content += "\n" + tuistyles.MetricTrendStyle(m.Trend.IsPositive).
			Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.HelpStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid renders cards in rows of the given number of columns.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
