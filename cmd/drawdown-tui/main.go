package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/drawdown/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: drawdown-tui <config-file>")
		os.Exit(1)
	}
	configPath := os.Args[1]

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Error: Config file not found: %s\n", configPath)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(configPath),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
