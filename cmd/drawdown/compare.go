package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/drawdown/internal/compare"
	"github.com/rgehrsitz/drawdown/internal/output"
	"github.com/rgehrsitz/drawdown/internal/transform"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		base          string
		with          string
		transforms    []string
		format        string
		listTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare a scenario against what-if alternatives",
		Long: `Projects a base scenario and one alternative per template or transform,
then reports each alternative's difference from the base.

Examples:
  drawdown compare plan.yaml --with delay_ss_70,spend_less_10pct
  drawdown compare plan.yaml --scenario couple --transform set_strategy:strategy=roth-first
  drawdown compare plan.yaml --with conservative --format csv
  drawdown compare --list-templates

Formats table, compact, csv and json summarize the comparison; any report
format (console, console-lite, html) prints the full year-by-year projections.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
			}

			templates := transform.ParseTemplateList(with)
			if len(templates) == 0 && len(transforms) == 0 {
				return fmt.Errorf("--with or --transform is required (use --list-templates to see available templates)")
			}

			cfg, err := loadConfig(args[0], nil)
			if err != nil {
				return err
			}

			a.logger.Debugf("comparing %q against %d template(s) and %d transform(s)", base, len(templates), len(transforms))
			set, err := compare.NewCompareEngine(a.engine()).Compare(cmd.Context(), cfg, compare.CompareOptions{
				BaseScenarioName: base,
				Templates:        templates,
				Transforms:       transforms,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ConfigPath = args[0]
			return writeComparison(cmd, set, format)
		},
	}

	cmd.Flags().StringVarP(&base, "scenario", "s", "", "Base scenario name (defaults to the first scenario)")
	cmd.Flags().StringVar(&with, "with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringArrayVar(&transforms, "transform", nil, "Ad-hoc transform, e.g. delay_ss:age=69 (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, compact, csv, json, or a report format)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List all available scenario templates")
	return cmd
}

func writeComparison(cmd *cobra.Command, set *compare.ComparisonSet, format string) error {
	var (
		out string
		err error
	)
	switch strings.ToLower(format) {
	case "table", "":
		out = (&compare.TableFormatter{}).Format(set)
	case "compact":
		out = (&compare.TableFormatter{}).FormatCompact(set)
	case "csv":
		out, err = (&compare.CSVFormatter{}).Format(set)
	case "json":
		out, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
	default:
		if output.GetFormatterByName(format) == nil {
			return fmt.Errorf("unknown format %q (valid: table, compact, csv, json, %s)", format,
				strings.Join(output.AvailableFormatterNames(), ", "))
		}
		return writeReport(cmd, output.NewProjectionReport(set.Projections()...), format, false)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
