package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/output"
	"github.com/rgehrsitz/drawdown/internal/tui/components"
	"github.com/rgehrsitz/drawdown/internal/tui/tuimsg"
	"github.com/rgehrsitz/drawdown/internal/tui/tuistyles"
)

// MonteCarloMode is the stage of a simulation shown by the scene.
type MonteCarloMode int

const (
	ModeSetup MonteCarloMode = iota
	ModeRunning
	ModeDone
)

const maxTrials = 100000

var keyRun = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run"))

// MonteCarloModel asks for a trial count, shows progress while trials run
// and then the percentile summary.
type MonteCarloModel struct {
	scenarioName string
	mode         MonteCarloMode
	runsInput    textinput.Model
	spinner      spinner.Model
	progress     *components.TrialProgress
	result       *domain.MonteCarloResult
	err          error
	width        int
	height       int
}

func NewMonteCarloModel() *MonteCarloModel {
	ti := textinput.New()
	ti.Placeholder = "1000"
	ti.CharLimit = 6
	ti.Width = 10
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}

	return &MonteCarloModel{
		runsInput: ti,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Prepare resets the scene to the setup form for scenario, pre-filled with
// the configured trial count.
func (m *MonteCarloModel) Prepare(scenarioName string, runs int) tea.Cmd {
	m.scenarioName = scenarioName
	m.mode = ModeSetup
	m.result = nil
	m.err = nil
	m.runsInput.SetValue(strconv.Itoa(runs))
	m.runsInput.CursorEnd()
	return m.runsInput.Focus()
}

// Start switches to the running view for total trials.
func (m *MonteCarloModel) Start(total int) tea.Cmd {
	m.mode = ModeRunning
	m.runsInput.Blur()
	m.progress = components.NewTrialProgress(total).WithLabel("Simulating " + m.scenarioName)
	return m.spinner.Tick
}

func (m *MonteCarloModel) SetProgress(done, total int) {
	if m.progress != nil {
		m.progress.Update(done, total)
	}
}

// Finish records the outcome of the run.
func (m *MonteCarloModel) Finish(result *domain.MonteCarloResult, err error) {
	m.mode = ModeDone
	m.result = result
	m.err = err
	if m.progress != nil && err == nil {
		m.progress.Update(m.progress.Total, m.progress.Total)
	}
}

// Editing reports whether the setup form has keyboard focus.
func (m *MonteCarloModel) Editing() bool {
	return m.mode == ModeSetup && m.runsInput.Focused()
}

func (m *MonteCarloModel) Mode() MonteCarloMode              { return m.mode }
func (m *MonteCarloModel) Result() *domain.MonteCarloResult { return m.result }

func (m *MonteCarloModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *MonteCarloModel) Update(msg tea.Msg) (*MonteCarloModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.mode != ModeRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode != ModeSetup {
			return m, nil
		}
		if key.Matches(msg, keyRun) {
			return m, m.submit()
		}
		var cmd tea.Cmd
		m.runsInput, cmd = m.runsInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *MonteCarloModel) submit() tea.Cmd {
	runs, err := strconv.Atoi(strings.TrimSpace(m.runsInput.Value()))
	if err != nil || runs < 1 || runs > maxTrials {
		m.err = fmt.Errorf("trial count must be between 1 and %d", maxTrials)
		return nil
	}
	m.err = nil
	name := m.scenarioName
	return func() tea.Msg { return tuimsg.MonteCarloStartMsg{ScenarioName: name, Runs: runs} }
}

func (m *MonteCarloModel) View() string {
	if m.scenarioName == "" {
		return tuistyles.BorderStyle.Render("No simulation yet.\n\nSelect a scenario and press m.")
	}

	title := tuistyles.TitleStyle.Render("Monte Carlo: " + m.scenarioName)
	var body string
	switch m.mode {
	case ModeSetup:
		body = "Number of trials: " + m.runsInput.View()
		if m.err != nil {
			body += "\n\n" + tuistyles.DangerStyle.Render(m.err.Error())
		}
		body += "\n\n" + helpLine(keyRun)
	case ModeRunning:
		body = m.spinner.View() + " running trials\n\n" + m.progress.Render()
	case ModeDone:
		body = m.renderSummary()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", tuistyles.BorderStyle.Render(body))
}

func (m *MonteCarloModel) renderSummary() string {
	if m.err != nil {
		return tuistyles.DangerStyle.Render("Simulation failed: " + m.err.Error())
	}
	r := m.result
	if r == nil {
		return ""
	}

	rate := tuistyles.RiskStyle(r.SuccessRate).Render(fmt.Sprintf("%s success (%s risk)",
		output.FormatPercentage(r.SuccessRate), output.RiskLevel(r.SuccessRate)))

	cards := []*components.MetricCard{
		components.NewCurrencyCard("10th Percentile", r.Percentile10Value),
		components.NewCurrencyCard("Median Final Value", r.MedianFinalValue),
		components.NewCurrencyCard("90th Percentile", r.Percentile90Value),
	}
	model := fmt.Sprintf("%d trials x %d years, mean %s, volatility %s",
		r.NumRuns, r.MaxYears,
		output.FormatPercentage(r.MeanReturn.Shift(2)), output.FormatPercentage(r.Volatility.Shift(2)))

	return lipgloss.JoinVertical(lipgloss.Left,
		rate,
		tuistyles.HelpStyle.Render(model),
		"",
		components.MetricGrid(cards, 3),
	)
}
