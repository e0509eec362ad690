package tui

import "github.com/rgehrsitz/drawdown/internal/tui/tuistyles"

// Re-export styles from tuistyles so the root model and scenes share them
// without an import cycle.
var (
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	StatusKeyStyle = tuistyles.StatusKeyStyle
	BorderStyle    = tuistyles.BorderStyle
	ErrorStyle     = tuistyles.ErrorStyle
)
