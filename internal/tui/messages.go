package tui

import (
	"github.com/rgehrsitz/drawdown/internal/tui/tuimsg"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneScenarios
	SceneResults
	SceneCompare
	SceneMonteCarlo
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneScenarios:
		return "Scenarios"
	case SceneResults:
		return "Results"
	case SceneCompare:
		return "Compare"
	case SceneMonteCarlo:
		return "Monte Carlo"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg requests a scene change
type NavigateMsg struct {
	Scene Scene
}

// QuitMsg signals the application should exit
type QuitMsg struct{}

// Messages shared with scenes live in tuimsg to avoid an import cycle.
type (
	ScenarioSelectedMsg    = tuimsg.ScenarioSelectedMsg
	MonteCarloRequestedMsg = tuimsg.MonteCarloRequestedMsg
	MonteCarloStartMsg     = tuimsg.MonteCarloStartMsg
	ConfigLoadedMsg        = tuimsg.ConfigLoadedMsg
	ErrorMsg               = tuimsg.ErrorMsg
	ProjectionCompleteMsg  = tuimsg.ProjectionCompleteMsg
	ComparisonCompleteMsg  = tuimsg.ComparisonCompleteMsg
	MonteCarloProgressMsg  = tuimsg.MonteCarloProgressMsg
	MonteCarloCompleteMsg  = tuimsg.MonteCarloCompleteMsg
)
