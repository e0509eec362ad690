package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry holds named transform bundles.
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named collection of transforms.
type Template struct {
	Name        string
	Description string
	Category    string
	Transforms  []ScenarioTransform
}

const (
	CategoryTiming     = "Retirement Timing"
	CategorySocialSec  = "Social Security"
	CategorySequencing = "Withdrawal Order"
	CategorySpending   = "Spending"
	CategoryCombined   = "Combination Strategies"
)

var templateCategories = []string{CategoryTiming, CategorySocialSec, CategorySequencing, CategorySpending, CategoryCombined}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted.
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates returns the stock what-if templates.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()
	lessSpending := decimal.RequireFromString("0.9")
	moreSpending := decimal.RequireFromString("1.1")

	registry.Register(Template{
		Name:        "postpone_1yr",
		Description: "Postpone retirement by 1 year",
		Category:    CategoryTiming,
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: 1}},
	})
	registry.Register(Template{
		Name:        "postpone_2yr",
		Description: "Postpone retirement by 2 years",
		Category:    CategoryTiming,
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: 2}},
	})

	registry.Register(Template{
		Name:        "claim_ss_62",
		Description: "Claim Social Security early at 62",
		Category:    CategorySocialSec,
		Transforms:  []ScenarioTransform{&DelaySSClaim{NewAge: 62}},
	})
	registry.Register(Template{
		Name:        "delay_ss_67",
		Description: "Claim Social Security at 67 (full retirement age)",
		Category:    CategorySocialSec,
		Transforms:  []ScenarioTransform{&DelaySSClaim{NewAge: 67}},
	})
	registry.Register(Template{
		Name:        "delay_ss_70",
		Description: "Delay Social Security to 70 (maximum benefit)",
		Category:    CategorySocialSec,
		Transforms:  []ScenarioTransform{&DelaySSClaim{NewAge: 70}},
	})

	for _, s := range []domain.SequencingStrategy{
		domain.StrategyTaxableFirst, domain.StrategyTraditionalFirst, domain.StrategyRothFirst, domain.StrategyProRata,
	} {
		registry.Register(Template{
			Name:        strings.ReplaceAll(string(s), "-", "_"),
			Description: fmt.Sprintf("Withdraw %s", s),
			Category:    CategorySequencing,
			Transforms:  []ScenarioTransform{&SetSequencing{Strategy: s}},
		})
	}

	registry.Register(Template{
		Name:        "spend_less_10pct",
		Description: "Spend 10% less",
		Category:    CategorySpending,
		Transforms:  []ScenarioTransform{&ScaleSpending{Factor: lessSpending}},
	})
	registry.Register(Template{
		Name:        "spend_more_10pct",
		Description: "Spend 10% more",
		Category:    CategorySpending,
		Transforms:  []ScenarioTransform{&ScaleSpending{Factor: moreSpending}},
	})
	registry.Register(Template{
		Name:        "rate_4pct",
		Description: "Withdraw 4% of the starting portfolio",
		Category:    CategorySpending,
		Transforms:  []ScenarioTransform{&SetWithdrawalRate{Rate: decimal.RequireFromString("0.04")}},
	})

	registry.Register(Template{
		Name:        "postpone_1yr_delay_ss_70",
		Description: "Postpone retirement 1 year + delay Social Security to 70",
		Category:    CategoryCombined,
		Transforms: []ScenarioTransform{
			&PostponeRetirement{Years: 1},
			&DelaySSClaim{NewAge: 70},
		},
	})
	registry.Register(Template{
		Name:        "conservative",
		Description: "Delay Social Security to 70, spend 10% less",
		Category:    CategoryCombined,
		Transforms: []ScenarioTransform{
			&DelaySSClaim{NewAge: 70},
			&ScaleSpending{Factor: lessSpending},
		},
	})
	registry.Register(Template{
		Name:        "tax_deferred_last",
		Description: "Taxable first, delay Social Security to 70",
		Category:    CategoryCombined,
		Transforms: []ScenarioTransform{
			&SetSequencing{Strategy: domain.StrategyTaxableFirst},
			&DelaySSClaim{NewAge: 70},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	byCategory := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	for _, category := range templateCategories {
		templates := byCategory[category]
		if len(templates) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-26s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  drawdown compare plan.yaml --with delay_ss_70,spend_less_10pct\n")
	sb.WriteString("  drawdown compare plan.yaml --scenario early --with conservative\n")

	return sb.String()
}
