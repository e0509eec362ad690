package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Configuration is the top-level scenario file.
type Configuration struct {
	Scenarios   []Scenario         `yaml:"scenarios" json:"scenarios"`
	Assumptions Assumptions        `yaml:"assumptions" json:"assumptions"`
	MonteCarlo  MonteCarloSettings `yaml:"monte_carlo" json:"monteCarlo"`
}

// Assumptions drive deterministic projections.
type Assumptions struct {
	ReturnRate decimal.Decimal   `yaml:"return_rate" json:"returnRate"`
	MaxYears   int               `yaml:"max_years" json:"maxYears"`
	Returns    []decimal.Decimal `yaml:"returns,omitempty" json:"returns,omitempty"`

	returnRateSet bool
}

// UnmarshalYAML records whether return_rate was written so that an explicit
// zero survives ApplyDefaults.
func (a *Assumptions) UnmarshalYAML(node *yaml.Node) error {
	type plain Assumptions
	if err := node.Decode((*plain)(a)); err != nil {
		return err
	}
	a.returnRateSet = hasKey(node, "return_rate")
	return nil
}

// MonteCarloSettings drive stochastic runs.
type MonteCarloSettings struct {
	Runs       int             `yaml:"runs" json:"runs"`
	MeanReturn decimal.Decimal `yaml:"mean_return" json:"meanReturn"`
	Volatility decimal.Decimal `yaml:"volatility" json:"volatility"`
	Seed       int64           `yaml:"seed" json:"seed"`
	Workers    int             `yaml:"workers" json:"workers"`

	meanReturnSet bool
	volatilitySet bool
}

// UnmarshalYAML records which return parameters were written; zero
// volatility is a valid deterministic setting.
func (mc *MonteCarloSettings) UnmarshalYAML(node *yaml.Node) error {
	type plain MonteCarloSettings
	if err := node.Decode((*plain)(mc)); err != nil {
		return err
	}
	mc.meanReturnSet = hasKey(node, "mean_return")
	mc.volatilitySet = hasKey(node, "volatility")
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

const (
	DefaultMaxYears = 30
	DefaultRuns     = 1000
)

var (
	DefaultReturnRate = decimal.RequireFromString("0.05")
	DefaultMeanReturn = decimal.RequireFromString("0.06")
	DefaultVolatility = decimal.RequireFromString("0.12")
)

// ApplyDefaults fills unset assumptions and Monte Carlo settings. Values
// decoded from a file count as set even when zero.
func (c *Configuration) ApplyDefaults() {
	if c.Assumptions.MaxYears == 0 {
		c.Assumptions.MaxYears = DefaultMaxYears
	}
	if c.Assumptions.ReturnRate.IsZero() && !c.Assumptions.returnRateSet && len(c.Assumptions.Returns) == 0 {
		c.Assumptions.ReturnRate = DefaultReturnRate
	}
	if c.MonteCarlo.Runs == 0 {
		c.MonteCarlo.Runs = DefaultRuns
	}
	if c.MonteCarlo.MeanReturn.IsZero() && !c.MonteCarlo.meanReturnSet {
		c.MonteCarlo.MeanReturn = DefaultMeanReturn
	}
	if c.MonteCarlo.Volatility.IsZero() && !c.MonteCarlo.volatilitySet {
		c.MonteCarlo.Volatility = DefaultVolatility
	}
}

// ScenarioByName returns the named scenario, or the first one when name is empty.
func (c *Configuration) ScenarioByName(name string) (*Scenario, error) {
	if len(c.Scenarios) == 0 {
		return nil, fmt.Errorf("configuration has no scenarios")
	}
	if name == "" {
		return &c.Scenarios[0], nil
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found", name)
}
