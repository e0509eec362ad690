package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// TrialProgress tracks completed Monte Carlo trials and renders them with a
// bubbles progress bar.
type TrialProgress struct {
	Current int
	Total   int
	Label   string
	bar     progress.Model
}

func NewTrialProgress(total int) *TrialProgress {
	return &TrialProgress{
		Total: total,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *TrialProgress) WithLabel(label string) *TrialProgress {
	p.Label = label
	return p
}

func (p *TrialProgress) WithWidth(width int) *TrialProgress {
	if width > 0 {
		p.bar.Width = width
	}
	return p
}

// Update records progress. Totals that change mid-run replace the old one.
func (p *TrialProgress) Update(current, total int) {
	if total > 0 {
		p.Total = total
	}
	if current > p.Current {
		p.Current = current
	}
	if p.Current > p.Total {
		p.Current = p.Total
	}
}

// Fraction returns completion in [0, 1].
func (p *TrialProgress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total)
}

func (p *TrialProgress) IsComplete() bool {
	return p.Total > 0 && p.Current >= p.Total
}

func (p *TrialProgress) Render() string {
	out := ""
	if p.Label != "" {
		out = lipgloss.NewStyle().Bold(true).Render(p.Label) + "\n"
	}
	count := tuistyles.HelpStyle.Render(fmt.Sprintf(" %d/%d trials", p.Current, p.Total))
	return out + p.bar.ViewAs(p.Fraction()) + count
}
