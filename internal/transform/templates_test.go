package transform

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

func TestBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	for _, name := range []string{
		"postpone_1yr", "postpone_2yr", "claim_ss_62", "delay_ss_67", "delay_ss_70",
		"taxable_first", "traditional_first", "roth_first", "pro_rata",
		"spend_less_10pct", "spend_more_10pct", "rate_4pct",
		"postpone_1yr_delay_ss_70", "conservative", "tax_deferred_last",
	} {
		tmpl, ok := registry.Get(name)
		if !ok {
			t.Errorf("template %s not registered", name)
			continue
		}
		if tmpl.Description == "" || tmpl.Category == "" || len(tmpl.Transforms) == 0 {
			t.Errorf("template %s is incomplete: %+v", name, tmpl)
		}
	}

	if _, ok := registry.Get("DELAY_SS_70"); !ok {
		t.Error("Expected case-insensitive lookup")
	}
	if _, ok := registry.Get("retire_tomorrow"); ok {
		t.Error("Expected unknown template to be missing")
	}
}

func TestApplyTemplate(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestScenario()

	tmpl, _ := registry.Get("conservative")
	result, err := ApplyTemplate(base, tmpl)
	if err != nil {
		t.Fatal(err)
	}
	if result.SocialSecurity.ClaimingAge != 70 {
		t.Errorf("Expected claiming age 70, got %d", result.SocialSecurity.ClaimingAge)
	}
	if !result.Policy.TargetNetIncome.Equal(decimal.NewFromInt(54000)) {
		t.Errorf("Expected target 54000, got %s", result.Policy.TargetNetIncome)
	}

	tmpl, _ = registry.Get("roth_first")
	result, err = ApplyTemplate(base, tmpl)
	if err != nil {
		t.Fatal(err)
	}
	if result.Policy.SequencingStrategy != domain.StrategyRothFirst {
		t.Errorf("Expected roth-first, got %s", result.Policy.SequencingStrategy)
	}

	noSS := createTestScenario()
	noSS.SocialSecurity = nil
	tmpl, _ = registry.Get("delay_ss_70")
	if _, err := ApplyTemplate(noSS, tmpl); err == nil {
		t.Error("Expected error applying delay_ss_70 without a benefit")
	}

	empty, err := ApplyTemplate(base, Template{Name: "noop"})
	if err != nil || empty == base {
		t.Errorf("Expected a copy for an empty template, got %v %v", empty == base, err)
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"delay_ss_70", []string{"delay_ss_70"}},
		{" postpone_1yr , ,delay_ss_70,", []string{"postpone_1yr", "delay_ss_70"}},
	}
	for _, tt := range tests {
		got := ParseTemplateList(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("ParseTemplateList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())
	for _, want := range []string{
		"Available Templates:", "Retirement Timing:", "Social Security:", "Withdrawal Order:",
		"Spending:", "Combination Strategies:", "delay_ss_70", "drawdown compare",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q", want)
		}
	}
	// categories appear in a fixed order
	if strings.Index(help, "Retirement Timing:") > strings.Index(help, "Combination Strategies:") {
		t.Error("categories out of order")
	}

	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Expected empty registry message")
	}
}
