package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/output"
)

func (a *app) projectCmd() *cobra.Command {
	var (
		format     string
		names      []string
		years      int
		returnRate string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "project [input-file]",
		Short: "Run deterministic projections for every scenario",
		Long: `Runs each scenario year by year under the file's return assumptions and
prints the cash flows. --scenario limits the run to the named scenarios.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0], func(cfg *domain.Configuration) error {
				if years > 0 {
					cfg.Assumptions.MaxYears = years
				}
				if returnRate != "" {
					r, err := parseRate("return", returnRate)
					if err != nil {
						return err
					}
					cfg.Assumptions.ReturnRate = r
					cfg.Assumptions.Returns = nil
				}
				return selectScenarios(cfg, names)
			})
			if err != nil {
				return err
			}

			a.logger.Debugf("projecting %d scenario(s) over %d years", len(cfg.Scenarios), cfg.Assumptions.MaxYears)
			results, err := a.engine().RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeReport(cmd, output.NewProjectionReport(results...), format, save)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, console-lite, csv, json, html)")
	cmd.Flags().StringSliceVar(&names, "scenario", nil, "Only run the named scenario (repeatable)")
	cmd.Flags().IntVar(&years, "years", 0, "Override the projection horizon in years")
	cmd.Flags().StringVar(&returnRate, "return", "", "Override the annual return, e.g. 0.05 or 5%; drops any per-year schedule")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

// selectScenarios keeps only the named scenarios, in the order given.
func selectScenarios(cfg *domain.Configuration, names []string) error {
	if len(names) == 0 {
		return nil
	}
	selected := make([]domain.Scenario, 0, len(names))
	for _, name := range names {
		s, err := cfg.ScenarioByName(name)
		if err != nil {
			return fmt.Errorf("--scenario: %w", err)
		}
		selected = append(selected, *s)
	}
	cfg.Scenarios = selected
	return nil
}
