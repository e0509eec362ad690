package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/tui/scenes"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.homeModel.SetSize(msg.Width, msg.Height)
		m.scenariosModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		m.monteCarloModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		_, cmd := m.monteCarloModel.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case NavigateMsg:
		m.goTo(msg.Scene)
		return m, nil

	case QuitMsg:
		m.stopMonteCarlo()
		return m, tea.Quit

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.loading = false
		m.config = msg.Config
		m.homeModel.SetConfig(msg.Config)
		m.scenariosModel.SetScenarios(msg.Config.Scenarios)
		if m.selectedScenario == "" && len(msg.Config.Scenarios) > 0 {
			m.selectedScenario = msg.Config.Scenarios[0].Name
		}
		return m, nil

	case ScenarioSelectedMsg:
		m.selectedScenario = msg.ScenarioName
		m.loading = true
		m.loadingMessage = fmt.Sprintf("Projecting %s...", msg.ScenarioName)
		return m, tea.Batch(projectScenarioCmd(m.calcEngine, m.config, msg.ScenarioName), m.spinner.Tick)

	case ProjectionCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.resultsModel.SetResult(msg.Result)
		m.goTo(SceneResults)
		return m, nil

	case ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.compareModel.SetResults(msg.Results)
		m.goTo(SceneCompare)
		return m, nil

	case MonteCarloRequestedMsg:
		m.selectedScenario = msg.ScenarioName
		m.goTo(SceneMonteCarlo)
		if m.monteCarloModel.Mode() == scenes.ModeRunning {
			return m, nil
		}
		return m, m.monteCarloModel.Prepare(msg.ScenarioName, m.config.MonteCarlo.Runs)

	case MonteCarloStartMsg:
		return m.startMonteCarloRun(msg)

	case MonteCarloProgressMsg:
		m.monteCarloModel.SetProgress(msg.Done, msg.Total)
		return m, waitForMonteCarlo(m.mcUpdates)

	case MonteCarloCompleteMsg:
		m.monteCarloModel.Finish(msg.Result, msg.Err)
		m.stopMonteCarlo()
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) startMonteCarloRun(msg MonteCarloStartMsg) (tea.Model, tea.Cmd) {
	scenario, err := m.config.ScenarioByName(msg.ScenarioName)
	if err != nil {
		m.monteCarloModel.Finish(nil, err)
		return m, nil
	}

	m.stopMonteCarlo()
	cfg := calculation.MonteCarloConfigFrom(m.config)
	cfg.NumRuns = msg.Runs

	ctx, cancel := context.WithCancel(context.Background())
	m.mcCancel = cancel
	m.mcUpdates = startMonteCarlo(ctx, m.calcEngine, scenario, cfg)
	return m, tea.Batch(m.monteCarloModel.Start(msg.Runs), waitForMonteCarlo(m.mcUpdates))
}

func (m *Model) stopMonteCarlo() {
	if m.mcCancel != nil {
		m.mcCancel()
		m.mcCancel = nil
	}
}

func (m *Model) goTo(scene Scene) {
	if scene == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: scene} }
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.stopMonteCarlo()
		return m, tea.Quit
	}

	// The trial count form owns the keyboard while focused.
	if m.currentScene == SceneMonteCarlo && m.monteCarloModel.Editing() {
		if msg.String() == "esc" {
			return m, navigate(m.backScene())
		}
		return m.updateCurrentScene(msg)
	}

	if m.loading {
		return m, nil
	}
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.stopMonteCarlo()
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneHome {
			return m, navigate(m.backScene())
		}
		return m, nil

	case "h":
		return m, navigate(SceneHome)

	case "s":
		return m, navigate(SceneScenarios)

	case "r":
		return m, navigate(SceneResults)

	case "c":
		if m.config == nil {
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Comparing scenarios..."
		return m, tea.Batch(compareScenariosCmd(m.calcEngine, m.config), m.spinner.Tick)

	case "m":
		// The scenarios scene requests its highlighted scenario itself.
		if m.currentScene != SceneScenarios && m.config != nil && m.selectedScenario != "" {
			name := m.selectedScenario
			return m, func() tea.Msg { return MonteCarloRequestedMsg{ScenarioName: name} }
		}
	}

	return m.updateCurrentScene(msg)
}

func (m Model) backScene() Scene {
	if m.previousScene != SceneHome && m.previousScene != m.currentScene {
		return m.previousScene
	}
	return SceneHome
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneScenarios:
		_, cmd = m.scenariosModel.Update(msg)
	case SceneResults:
		_, cmd = m.resultsModel.Update(msg)
	case SceneCompare:
		_, cmd = m.compareModel.Update(msg)
	case SceneMonteCarlo:
		_, cmd = m.monteCarloModel.Update(msg)
	case SceneHome:
		_, cmd = m.homeModel.Update(msg)
	}
	return m, cmd
}
