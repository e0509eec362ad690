package output

import (
	"os"
	"time"

	gomoney "github.com/Rhymond/go-money"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Report is everything a formatter may render. Either part may be empty.
type Report struct {
	GeneratedAt time.Time                  `json:"generatedAt"`
	Assumptions []string                   `json:"assumptions,omitempty"`
	Projections []*domain.ProjectionResult `json:"projections,omitempty"`
	MonteCarlo  *domain.MonteCarloResult   `json:"monteCarlo,omitempty"`
}

// NewProjectionReport wraps deterministic results.
func NewProjectionReport(results ...*domain.ProjectionResult) *Report {
	return &Report{GeneratedAt: time.Now(), Assumptions: DefaultAssumptions, Projections: results}
}

// NewMonteCarloReport wraps a Monte Carlo result. The median run is also
// exposed as a projection so year-level formatters have something to show.
func NewMonteCarloReport(result *domain.MonteCarloResult) *Report {
	r := &Report{GeneratedAt: time.Now(), Assumptions: DefaultAssumptions, MonteCarlo: result}
	if result != nil && result.MedianRun != nil {
		r.Projections = []*domain.ProjectionResult{result.MedianRun}
	}
	return r
}

// SaveConfiguration saves a configuration to a YAML file
func SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// FormatCurrency formats a decimal as US dollars with thousands separators.
// Amounts are rounded half away from zero to the cent.
func FormatCurrency(amount decimal.Decimal) string {
	cents := amount.Round(2).Shift(2).IntPart()
	return gomoney.New(cents, gomoney.USD).Display()
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// RiskLevel classifies a Monte Carlo success rate given in percent.
func RiskLevel(successRate decimal.Decimal) string {
	switch {
	case successRate.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return "LOW"
	case successRate.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return "MODERATE"
	case successRate.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return "HIGH"
	default:
		return "VERY HIGH"
	}
}

func sumRMDs(p domain.WithdrawalPlan) decimal.Decimal {
	total := decimal.Zero
	for _, info := range p.Accounts {
		total = total.Add(p.RMDs[info.ID])
	}
	return total
}
