package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const maxProjectionYears = 100

var minusOne = decimal.NewFromInt(-1)

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	config, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

// Parse decodes YAML (or JSON) bytes, fills defaults and validates the result.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	config.ApplyDefaults()

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	names := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if err := scenario.Validate(); err != nil {
			return fmt.Errorf("scenario %d (%s) validation failed: %w", i, scenario.Name, err)
		}
		if names[scenario.Name] {
			return fmt.Errorf("scenario %d: duplicate scenario name %q", i, scenario.Name)
		}
		names[scenario.Name] = true
	}

	if err := ip.validateAssumptions(&config.Assumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	if err := ip.validateMonteCarlo(&config.MonteCarlo); err != nil {
		return fmt.Errorf("monte carlo validation failed: %w", err)
	}
	return nil
}

// validateAssumptions validates the deterministic projection assumptions
func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	if a.MaxYears < 1 || a.MaxYears > maxProjectionYears {
		return fmt.Errorf("max years must be between 1 and %d", maxProjectionYears)
	}
	if a.ReturnRate.LessThanOrEqual(minusOne) {
		return fmt.Errorf("return rate must be greater than -100%%")
	}
	for i, r := range a.Returns {
		if r.LessThanOrEqual(minusOne) {
			return fmt.Errorf("return for year %d must be greater than -100%%", i+1)
		}
	}
	return nil
}

// validateMonteCarlo validates Monte Carlo settings
func (ip *InputParser) validateMonteCarlo(mc *domain.MonteCarloSettings) error {
	if mc.Runs <= 0 {
		return fmt.Errorf("runs must be positive")
	}
	if mc.Volatility.IsNegative() {
		return fmt.Errorf("volatility cannot be negative")
	}
	if mc.MeanReturn.LessThanOrEqual(minusOne) {
		return fmt.Errorf("mean return must be greater than -100%%")
	}
	if mc.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	return nil
}
