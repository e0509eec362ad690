package transform

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
)

// PostponeRetirement starts the drawdown a number of years later. Balances
// are left as configured; the later start changes the ages at which
// Social Security and RMDs begin relative to the first simulated year.
type PostponeRetirement struct {
	Years int
}

func (pr *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pr *PostponeRetirement) Description() string {
	return fmt.Sprintf("Postpone retirement by %d year%s", pr.Years, plural(pr.Years))
}

func (pr *PostponeRetirement) Validate(base *domain.Scenario) error {
	if pr.Years <= 0 || pr.Years > 10 {
		return NewTransformError(pr.Name(), "validate", fmt.Sprintf("years must be between 1 and 10, got %d", pr.Years), nil)
	}
	if err := requireBase(pr.Name(), base); err != nil {
		return err
	}
	if base.Profile == nil {
		return NewTransformError(pr.Name(), "validate", "scenario has no profile", domain.ErrMissingProfile)
	}
	return nil
}

func (pr *PostponeRetirement) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Profile.RetirementAge += pr.Years
	if modified.StartYear > 0 {
		modified.StartYear += pr.Years
	}
	return modified, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
