package main

import (
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/output"
)

func (a *app) monteCarloCmd() *cobra.Command {
	var (
		format     string
		name       string
		runs       int
		years      int
		mean       string
		volatility string
		seed       int64
		workers    int
		save       bool
	)

	cmd := &cobra.Command{
		Use:     "montecarlo [input-file]",
		Aliases: []string{"monte-carlo", "mc"},
		Short:   "Simulate a scenario under random annual returns",
		Long: `Runs many independent projections of one scenario, each drawing a normally
distributed return every year, and reports the success rate and the 10th,
50th and 90th percentile final portfolio values. Settings default to the
file's monte_carlo section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := loadConfig(args[0], func(cfg *domain.Configuration) error {
				mc := &cfg.MonteCarlo
				if flags.Changed("runs") {
					mc.Runs = runs
				}
				if flags.Changed("seed") {
					mc.Seed = seed
				}
				if flags.Changed("workers") {
					mc.Workers = workers
				}
				if years > 0 {
					cfg.Assumptions.MaxYears = years
				}
				var err error
				if mean != "" {
					if mc.MeanReturn, err = parseRate("mean", mean); err != nil {
						return err
					}
				}
				if volatility != "" {
					if mc.Volatility, err = parseRate("volatility", volatility); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			scenario, err := cfg.ScenarioByName(name)
			if err != nil {
				return err
			}

			mcCfg := calculation.MonteCarloConfigFrom(cfg)
			a.logger.Debugf("simulating %s: %d trials, seed %d", scenario.Name, mcCfg.NumRuns, mcCfg.Seed)
			result, err := a.engine().RunMonteCarlo(cmd.Context(), scenario, mcCfg, a.progressLogger())
			if err != nil {
				return err
			}
			return writeReport(cmd, output.NewMonteCarloReport(result), format, save)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, console-lite, csv, json, html)")
	cmd.Flags().StringVar(&name, "scenario", "", "Scenario to simulate (default: the first one)")
	cmd.Flags().IntVar(&runs, "runs", domain.DefaultRuns, "Number of trials")
	cmd.Flags().IntVar(&years, "years", 0, "Override the projection horizon in years")
	cmd.Flags().StringVar(&mean, "mean", "", "Mean annual return, e.g. 0.06 or 6%")
	cmd.Flags().StringVar(&volatility, "volatility", "", "Standard deviation of annual return, e.g. 0.12 or 12%")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Base random seed; trial i uses seed+i")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent trials (0 = number of CPUs)")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

// progressLogger logs every tenth of the way through a simulation.
func (a *app) progressLogger() calculation.ProgressFunc {
	return func(done, total int) {
		if total > 0 && done*10/total != (done-1)*10/total {
			a.logger.Debugf("monte carlo: %d/%d trials", done, total)
		}
	}
}
