package domain

import "errors"

var (
	ErrInvalidSourceType  = errors.New("invalid_source_type")
	ErrInvalidSourceID    = errors.New("invalid_source_id")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidOccurredAt  = errors.New("invalid_occurred_at")
	ErrInvalidAccount     = errors.New("invalid_account")
	ErrInvalidDirection   = errors.New("invalid_line_direction")
	ErrNegativeLineAmount = errors.New("negative_line_amount")
	ErrTooFewLines        = errors.New("too_few_lines")
	ErrUnbalancedEntry    = errors.New("unbalanced_entry")
	ErrAccountMissing     = errors.New("account_missing")
	ErrEntryNotFound      = errors.New("entry_not_found")
)
