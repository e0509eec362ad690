// Package tuimsg defines the messages scenes emit to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/drawdown/internal/domain"
)

// ScenarioSelectedMsg signals a scenario has been selected for projection.
type ScenarioSelectedMsg struct {
	ScenarioName string
}

// MonteCarloRequestedMsg asks the root model to start a simulation.
type MonteCarloRequestedMsg struct {
	ScenarioName string
}

// MonteCarloStartMsg carries the trial count confirmed in the setup form.
type MonteCarloStartMsg struct {
	ScenarioName string
	Runs         int
}

// ConfigLoadedMsg signals configuration has been loaded.
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ErrorMsg displays an error to the user.
type ErrorMsg struct {
	Err error
}

// ProjectionCompleteMsg carries a finished deterministic projection.
type ProjectionCompleteMsg struct {
	ScenarioName string
	Result       *domain.ProjectionResult
	Err          error
}

// ComparisonCompleteMsg carries projections for every configured scenario.
type ComparisonCompleteMsg struct {
	Results []*domain.ProjectionResult
	Err     error
}

// MonteCarloProgressMsg reports completed trials.
type MonteCarloProgressMsg struct {
	Done  int
	Total int
}

// MonteCarloCompleteMsg carries the aggregate result of a simulation.
type MonteCarloCompleteMsg struct {
	ScenarioName string
	Result       *domain.MonteCarloResult
	Err          error
}
