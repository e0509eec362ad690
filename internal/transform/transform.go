package transform

import (
	"fmt"

	"github.com/rgehrsitz/drawdown/internal/domain"
)

// ScenarioTransform is a named, composable change to a scenario. Transforms
// never modify their input; Apply returns a new scenario.
type ScenarioTransform interface {
	// Apply returns a modified copy of base.
	Apply(base *domain.Scenario) (*domain.Scenario, error)

	// Name is a short identifier such as "delay_ss".
	Name() string

	// Description is a human-readable summary of the change.
	Description() string

	// Validate checks the transform's parameters against base without
	// applying it.
	Validate(base *domain.Scenario) error
}

// ApplyTransforms applies transforms in order, each to the previous output.
func ApplyTransforms(base *domain.Scenario, transforms []ScenarioTransform) (*domain.Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}
	if len(transforms) == 0 {
		return base.DeepCopy(), nil
	}

	current := base
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError reports a transform that could not be validated or applied.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func requireBase(name string, base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(name, "validate", "base scenario cannot be nil", nil)
	}
	return nil
}

func requirePolicy(name string, base *domain.Scenario) error {
	if err := requireBase(name, base); err != nil {
		return err
	}
	if base.Policy == nil {
		return NewTransformError(name, "validate", "scenario has no withdrawal policy", domain.ErrMissingPolicy)
	}
	return nil
}
