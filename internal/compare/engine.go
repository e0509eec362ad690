package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/calculation"
	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/rgehrsitz/drawdown/internal/transform"
)

// CompareEngine runs a base scenario against alternatives.
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures a template comparison.
type CompareOptions struct {
	BaseScenarioName string   // empty selects the first scenario
	Templates        []string // built-in template names
	// Transforms are ad-hoc transform specs ("delay_ss:age=69"); each
	// becomes its own alternative.
	Transforms []string
}

// Compare projects the base scenario and one alternative per template or
// transform spec, all under config's assumptions.
func (ce *CompareEngine) Compare(ctx context.Context, config *domain.Configuration, options CompareOptions) (*ComparisonSet, error) {
	base, err := config.ScenarioByName(options.BaseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("base scenario: %w", err)
	}
	baseResult, err := ce.calculate(ctx, config, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = base.Name + "_" + template.Name

		alt, err := ce.calculate(ctx, config, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", templateName, err)
		}
		alt.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	registry := transform.NewTransformRegistry()
	for _, spec := range options.Transforms {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		modified, err := transform.ApplyTransforms(base, []transform.ScenarioTransform{t})
		if err != nil {
			return nil, err
		}
		modified.Name = base.Name + "_" + t.Name()

		alt, err := ce.calculate(ctx, config, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", spec, err)
		}
		alt.Description = t.Description()
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// CompareScenarios compares scenarios already present in config.
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	base, err := config.ScenarioByName(baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("base scenario: %w", err)
	}
	baseResult, err := ce.calculate(ctx, config, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, altName := range alternativeScenarioNames {
		if altName == "" {
			continue
		}
		scenario, err := config.ScenarioByName(altName)
		if err != nil {
			return nil, fmt.Errorf("alternative scenario: %w", err)
		}
		alt, err := ce.calculate(ctx, config, scenario)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) calculate(ctx context.Context, config *domain.Configuration, scenario *domain.Scenario) (ComparisonResult, error) {
	res, err := ce.CalcEngine.RunProjection(ctx, scenario, config.Assumptions.MaxYears, calculation.ProjectionSchedule(config.Assumptions))
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(res, scenario), nil
}
