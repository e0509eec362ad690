package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/config"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries state shared by subcommands.
type app struct {
	debug  bool
	logger *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "drawdown",
		Short: "Retirement cash-flow simulator",
		Long: `Drawdown projects a retiree's portfolio year by year: guaranteed income,
required minimum distributions, withdrawals in policy order and federal
income tax. It can also run Monte Carlo simulations of random returns.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging of each simulated year")

	root.AddCommand(a.projectCmd())
	root.AddCommand(a.monteCarloCmd())
	root.AddCommand(a.compareCmd())
	root.AddCommand(a.breakEvenCmd())
	root.AddCommand(a.validateCmd())
	root.AddCommand(versionCmd())
	return root
}

func (a *app) initLogger() error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger.Sugar()
	return nil
}

func (a *app) engine() *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	if a.logger != nil {
		engine.SetLogger(a.logger)
	}
	return engine
}

// loadConfig parses path, lets apply adjust it, then validates the result.
func loadConfig(path string, apply func(*domain.Configuration) error) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, err
		}
		if err := parser.ValidateConfiguration(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// parseRate parses a flag value given either as a fraction ("0.05") or a
// percentage ("5%").
func parseRate(flag, value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	percent := strings.HasSuffix(v, "%")
	d, err := decimal.NewFromString(strings.TrimSuffix(v, "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	if percent {
		d = d.Shift(-2)
	}
	return d, nil
}

var reportExtensions = map[string]string{
	"console":      "txt",
	"console-lite": "txt",
	"csv":          "csv",
	"json":         "json",
	"html":         "html",
}

// writeReport renders report in format to stdout, or to a timestamped file
// when save is set.
func writeReport(cmd *cobra.Command, report *output.Report, format string, save bool) error {
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", format,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}

	if save {
		name, err := output.WriteFormatted(f, report, reportExtensions[f.Name()])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", name)
		return nil
	}

	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func (a *app) validateCmd() *cobra.Command {
	var writeDefaults string
	cmd := &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0], nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d scenario(s))\n", args[0], len(cfg.Scenarios))

			if writeDefaults != "" {
				if err := output.SaveConfiguration(cfg, writeDefaults); err != nil {
					return fmt.Errorf("failed to write %s: %w", writeDefaults, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration with defaults written to %s\n", writeDefaults)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&writeDefaults, "write-defaults", "", "Write the configuration, with defaults filled in, to this file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "drawdown %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
