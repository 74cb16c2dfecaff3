package domain

import "errors"

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidLocation       = errors.New("invalid_location")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidRate           = errors.New("invalid_rate")
	ErrInvalidEffectiveFrom  = errors.New("invalid_effective_from")
	ErrInvalidEffectiveRange = errors.New("invalid_effective_range")
	ErrInvalidPeriod         = errors.New("invalid_period")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrRuleExists            = errors.New("tax_rule_exists")
	ErrNotFound              = errors.New("not_found")
	ErrAlreadyPaid           = errors.New("tax_return_already_paid")
)
