package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/drawdown/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters for the CLI.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a registry with every built-in transform.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("delay_ss", createDelaySSClaim)
	registry.Register("set_strategy", createSetSequencing)
	registry.Register("set_target_income", createSetTargetIncome)
	registry.Register("set_withdrawal_rate", createSetWithdrawalRate)
	registry.Register("set_inflation", createModifyInflation)
	registry.Register("scale_spending", createScaleSpending)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the registered transform names, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:key=value,key=value", for example
// "delay_ss:age=70".
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func intParam(transform, key string, params map[string]string) (int, error) {
	s, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func decimalParam(transform, key string, params map[string]string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createPostponeRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := intParam("postpone_retirement", "years", params)
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createDelaySSClaim(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("delay_ss", "age", params)
	if err != nil {
		return nil, err
	}
	return &DelaySSClaim{NewAge: age}, nil
}

func createSetSequencing(params map[string]string) (ScenarioTransform, error) {
	strategy, ok := params["strategy"]
	if !ok {
		return nil, fmt.Errorf("set_strategy requires 'strategy' parameter")
	}
	return &SetSequencing{Strategy: domain.SequencingStrategy(strategy)}, nil
}

func createSetTargetIncome(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_target_income", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetTargetIncome{Amount: amount}, nil
}

func createSetWithdrawalRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_withdrawal_rate", "rate", params)
	if err != nil {
		return nil, err
	}
	return &SetWithdrawalRate{Rate: rate}, nil
}

func createModifyInflation(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_inflation", "rate", params)
	if err != nil {
		return nil, err
	}
	return &ModifyInflation{NewRate: rate}, nil
}

func createScaleSpending(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_spending", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleSpending{Factor: factor}, nil
}
