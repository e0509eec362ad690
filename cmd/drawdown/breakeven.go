package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/drawdown/internal/breakeven"
)

func (a *app) breakEvenCmd() *cobra.Command {
	var (
		scenario  string
		target    string
		goal      string
		format    string
		minIncome float64
		maxIncome float64
		minRate   string
		maxRate   string
		maxDelay  int
	)

	cmd := &cobra.Command{
		Use:   "breakeven [input-file]",
		Short: "Find the most a scenario can spend, or its best setting",
		Long: `Searches one scenario parameter for the best outcome.

Targets:
  target_income     largest income target that lasts the whole horizon
  withdrawal_rate   largest withdrawal rate that lasts the whole horizon
  ss_age            best Social Security claiming age (62-70)
  strategy          best withdrawal sequencing strategy
  retirement_delay  best number of years to postpone retirement
  all               every target above

Goals (for ss_age, strategy and retirement_delay): maximize_income,
maximize_longevity, maximize_legacy, minimize_taxes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0], nil)
			if err != nil {
				return err
			}
			base, err := cfg.ScenarioByName(scenario)
			if err != nil {
				return fmt.Errorf("--scenario: %w", err)
			}

			request := breakeven.OptimizationRequest{BaseScenario: base, Config: cfg}
			if goal != "" {
				g, ok := breakeven.ParseGoal(goal)
				if !ok {
					return fmt.Errorf("unknown --goal %q", goal)
				}
				request.Goal = g
			}
			if minIncome > 0 {
				v := decimal.NewFromFloat(minIncome)
				request.Constraints.MinIncome = &v
			}
			if maxIncome > 0 {
				v := decimal.NewFromFloat(maxIncome)
				request.Constraints.MaxIncome = &v
			}
			if request.Constraints.MinRate, err = optionalRate("min-rate", minRate); err != nil {
				return err
			}
			if request.Constraints.MaxRate, err = optionalRate("max-rate", maxRate); err != nil {
				return err
			}
			if cmd.Flags().Changed("max-delay") {
				request.Constraints.MaxDelayYears = &maxDelay
			}

			solver := breakeven.NewSolver(a.engine(), breakeven.DefaultSolverOptions())
			a.logger.Debugf("solving %s for scenario %s", target, base.Name)

			if strings.EqualFold(target, "all") {
				multi, err := solver.OptimizeAllTargets(cmd.Context(), request)
				if err != nil {
					return err
				}
				return writeBreakEven(cmd, format, func(tf *breakeven.TableFormatter) string {
					return tf.FormatMultiDimensional(multi)
				}, func(jf *breakeven.JSONFormatter) (string, error) {
					return jf.FormatMultiDimensional(multi)
				})
			}

			t, ok := breakeven.ParseTarget(target)
			if !ok {
				return fmt.Errorf("unknown --target %q", target)
			}
			request.Target = t
			result, err := solver.Optimize(cmd.Context(), request)
			if err != nil {
				return err
			}
			return writeBreakEven(cmd, format, func(tf *breakeven.TableFormatter) string {
				return tf.Format(result)
			}, func(jf *breakeven.JSONFormatter) (string, error) {
				return jf.Format(result)
			})
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario to solve (defaults to the first scenario)")
	cmd.Flags().StringVarP(&target, "target", "t", string(breakeven.OptimizeTargetIncome), "Parameter to search, or all")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Outcome to optimize for grid searches")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().Float64Var(&minIncome, "min-income", 0, "Lower bound for the income search")
	cmd.Flags().Float64Var(&maxIncome, "max-income", 0, "Upper bound for the income search (defaults to the total balance)")
	cmd.Flags().StringVar(&minRate, "min-rate", "", "Lower bound for the withdrawal rate search, e.g. 0.02 or 2%")
	cmd.Flags().StringVar(&maxRate, "max-rate", "", "Upper bound for the withdrawal rate search")
	cmd.Flags().IntVar(&maxDelay, "max-delay", 5, "Most years of retirement delay to consider")
	return cmd
}

func optionalRate(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	r, err := parseRate(flag, value)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func writeBreakEven(
	cmd *cobra.Command,
	format string,
	table func(*breakeven.TableFormatter) string,
	jsonOut func(*breakeven.JSONFormatter) (string, error),
) error {
	var out string
	switch strings.ToLower(format) {
	case "table", "":
		out = table(&breakeven.TableFormatter{})
	case "json":
		var err error
		if out, err = jsonOut(&breakeven.JSONFormatter{Pretty: true}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (valid: table, json)", format)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
