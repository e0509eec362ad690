package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/config"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	configPath string
	config     *domain.Configuration
	calcEngine *calculation.CalculationEngine

	selectedScenario string

	homeModel       *scenes.HomeModel
	scenariosModel  *scenes.ScenariosModel
	resultsModel    *scenes.ResultsModel
	compareModel    *scenes.CompareModel
	monteCarloModel *scenes.MonteCarloModel

	// Monte Carlo trials run on a background goroutine and report through
	// this channel; cancel stops them.
	mcUpdates <-chan tea.Msg
	mcCancel  context.CancelFunc

	err error

	loading        bool
	loadingMessage string
	spinner        spinner.Model
}

// NewModel creates a new application model
func NewModel(configPath string) Model {
	return Model{
		currentScene:    SceneHome,
		configPath:      configPath,
		calcEngine:      calculation.NewCalculationEngine(),
		homeModel:       scenes.NewHomeModel(),
		scenariosModel:  scenes.NewScenariosModel(),
		resultsModel:    scenes.NewResultsModel(),
		compareModel:    scenes.NewCompareModel(),
		monteCarloModel: scenes.NewMonteCarloModel(),
		loading:         true,
		loadingMessage:  "Loading configuration...",
		spinner:         spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		width:           100,
		height:          30,
	}
}

// Init loads the configuration file.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadConfigCmd(m.configPath), m.spinner.Tick)
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// projectScenarioCmd runs the deterministic projection for one scenario.
func projectScenarioCmd(engine *calculation.CalculationEngine, cfg *domain.Configuration, name string) tea.Cmd {
	return func() tea.Msg {
		scenario, err := cfg.ScenarioByName(name)
		if err != nil {
			return ProjectionCompleteMsg{ScenarioName: name, Err: err}
		}
		result, err := engine.RunProjection(context.Background(), scenario,
			cfg.Assumptions.MaxYears, calculation.ProjectionSchedule(cfg.Assumptions))
		if err != nil {
			err = fmt.Errorf("failed to project %s: %w", name, err)
		}
		return ProjectionCompleteMsg{ScenarioName: name, Result: result, Err: err}
	}
}

// compareScenariosCmd projects every configured scenario.
func compareScenariosCmd(engine *calculation.CalculationEngine, cfg *domain.Configuration) tea.Cmd {
	return func() tea.Msg {
		results, err := engine.RunScenarios(context.Background(), cfg)
		return ComparisonCompleteMsg{Results: results, Err: err}
	}
}

// startMonteCarlo launches the simulation on its own goroutine. Progress is
// delivered best-effort; the completion message always arrives, after which
// the channel is closed.
func startMonteCarlo(ctx context.Context, engine *calculation.CalculationEngine, scenario *domain.Scenario, mc calculation.MonteCarloConfig) <-chan tea.Msg {
	updates := make(chan tea.Msg, 16)
	go func() {
		defer close(updates)
		result, err := engine.RunMonteCarlo(ctx, scenario, mc, func(done, total int) {
			select {
			case updates <- MonteCarloProgressMsg{Done: done, Total: total}:
			default:
			}
		})
		updates <- MonteCarloCompleteMsg{ScenarioName: scenario.Name, Result: result, Err: err}
	}()
	return updates
}

// waitForMonteCarlo blocks until the next message from a running simulation.
func waitForMonteCarlo(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}
