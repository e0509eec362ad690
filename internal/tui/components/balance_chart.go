package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// BalanceChart draws end-of-year portfolio value as vertical bars, one
// column per simulated year.
type BalanceChart struct {
	Title  string
	Years  []int
	Values []decimal.Decimal
	Height int
}

// NewBalanceChart collects the year-end portfolio values of a projection.
func NewBalanceChart(result *domain.ProjectionResult) *BalanceChart {
	c := &BalanceChart{Title: "Portfolio Value", Height: 8}
	if result == nil {
		return c
	}
	for _, p := range result.Plans {
		c.Years = append(c.Years, p.Year)
		c.Values = append(c.Values, p.TotalPortfolioValue)
	}
	return c
}

func (c *BalanceChart) WithHeight(height int) *BalanceChart {
	if height > 0 {
		c.Height = height
	}
	return c
}

// Render returns the chart, or a placeholder when there is nothing to plot.
func (c *BalanceChart) Render() string {
	if len(c.Values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	peak := decimal.Zero
	for _, v := range c.Values {
		if v.GreaterThan(peak) {
			peak = v
		}
	}

	heights := make([]int, len(c.Values))
	if peak.IsPositive() {
		rows := decimal.NewFromInt(int64(c.Height))
		for i, v := range c.Values {
			if v.IsPositive() {
				heights[i] = int(v.Div(peak).Mul(rows).Ceil().IntPart())
			}
		}
	}

	bar := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	var out strings.Builder
	out.WriteString(tuistyles.SectionStyle.Render(c.Title))
	out.WriteString("\n")
	for row := c.Height; row >= 1; row-- {
		label := ""
		if row == c.Height {
			label = tuistyles.FormatCurrency(peak)
		}
		out.WriteString(axis.Render(fmt.Sprintf("%14s │", label)))
		for _, h := range heights {
			if h >= row {
				out.WriteString(bar.Render("█"))
			} else {
				out.WriteString(" ")
			}
		}
		out.WriteString("\n")
	}
	out.WriteString(axis.Render(fmt.Sprintf("%14s └%s", "$0", strings.Repeat("─", len(heights)))))
	out.WriteString("\n")
	out.WriteString(axis.Render(fmt.Sprintf("%16s%d..%d", "", c.Years[0], c.Years[len(c.Years)-1])))
	return out.String()
}
