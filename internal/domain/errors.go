package domain

import "errors"

// Configuration errors. Callers test for these with errors.Is; the returned
// error usually wraps one of them with the offending field or index.
var (
	ErrMissingName      = errors.New("scenario name is required")
	ErrMissingProfile   = errors.New("user profile is required")
	ErrMissingPolicy    = errors.New("withdrawal policy is required")
	ErrNoAccounts       = errors.New("at least one account is required")
	ErrDuplicateAccount = errors.New("duplicate account id")
	ErrNoNeedDriver     = errors.New("withdrawal policy needs target_net_income, withdrawal_rate or min_required_income")
	ErrInvalidCostBasis = errors.New("cost basis must be between 0 and the account balance")
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidClaimAge  = errors.New("social security claiming age must be between 62 and 70")
	ErrUnknownValue     = errors.New("unknown value")
)
