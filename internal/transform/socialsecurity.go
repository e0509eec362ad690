package transform

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
)

// DelaySSClaim changes the Social Security claiming age. Each year of delay
// past full retirement age adds 8% to the benefit, up to age 70.
type DelaySSClaim struct {
	NewAge int
}

func (dss *DelaySSClaim) Name() string {
	return "delay_ss"
}

func (dss *DelaySSClaim) Description() string {
	return fmt.Sprintf("Claim Social Security at %d", dss.NewAge)
}

func (dss *DelaySSClaim) Validate(base *domain.Scenario) error {
	if dss.NewAge < 62 || dss.NewAge > 70 {
		return NewTransformError(dss.Name(), "validate",
			fmt.Sprintf("claiming age must be between 62 and 70, got %d", dss.NewAge), domain.ErrInvalidClaimAge)
	}
	if err := requireBase(dss.Name(), base); err != nil {
		return err
	}
	if base.SocialSecurity == nil {
		return NewTransformError(dss.Name(), "validate", "scenario has no Social Security benefit", nil)
	}
	return nil
}

func (dss *DelaySSClaim) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.SocialSecurity.ClaimingAge = dss.NewAge
	return modified, nil
}
