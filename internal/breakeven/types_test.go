package breakeven

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestConstraints_Validate(t *testing.T) {
	tests := []struct {
		name        string
		constraints Constraints
		wantErr     bool
	}{
		{"empty", Constraints{}, false},
		{"valid income range", Constraints{MinIncome: decPtr("20000"), MaxIncome: decPtr("90000")}, false},
		{"negative min income", Constraints{MinIncome: decPtr("-1")}, true},
		{"inverted income range", Constraints{MinIncome: decPtr("90000"), MaxIncome: decPtr("20000")}, true},
		{"zero min rate", Constraints{MinRate: decPtr("0")}, true},
		{"inverted rate range", Constraints{MinRate: decPtr("0.06"), MaxRate: decPtr("0.03")}, true},
		{"rate above cap", Constraints{MaxRate: decPtr("0.25")}, true},
		{"valid ss ages", Constraints{MinSSAge: intPtr(64), MaxSSAge: intPtr(68)}, false},
		{"inverted ss ages", Constraints{MinSSAge: intPtr(68), MaxSSAge: intPtr(64)}, true},
		{"ss age too low", Constraints{MinSSAge: intPtr(60)}, true},
		{"ss age too high", Constraints{MaxSSAge: intPtr(72)}, true},
		{"delay in range", Constraints{MaxDelayYears: intPtr(3)}, false},
		{"delay too long", Constraints{MaxDelayYears: intPtr(11)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constraints.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTargetAndGoal(t *testing.T) {
	if got, ok := ParseTarget("ss_age"); !ok || got != OptimizeSSAge {
		t.Errorf("ParseTarget(ss_age) = %q, %v", got, ok)
	}
	if _, ok := ParseTarget("pension_lump_sum"); ok {
		t.Error("ParseTarget accepted an unknown target")
	}
	if got, ok := ParseGoal("minimize_taxes"); !ok || got != GoalMinimizeTaxes {
		t.Errorf("ParseGoal(minimize_taxes) = %q, %v", got, ok)
	}
	if _, ok := ParseGoal(""); ok {
		t.Error("ParseGoal accepted an empty goal")
	}
}

func TestBreakEvenError(t *testing.T) {
	plain := &BreakEvenError{Operation: "optimize", Message: "bad input"}
	if plain.Error() != "optimize: bad input" {
		t.Errorf("Error() = %q", plain.Error())
	}

	cause := errors.New("boom")
	wrapped := &BreakEvenError{Operation: "optimize", Message: "projection failed", Cause: cause}
	if wrapped.Error() != "optimize: projection failed: boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is did not find the cause")
	}
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()
	if !opts.Tolerance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Tolerance = %s, want 100", opts.Tolerance)
	}
	if opts.MaxIterations != 40 {
		t.Errorf("MaxIterations = %d, want 40", opts.MaxIterations)
	}
}
