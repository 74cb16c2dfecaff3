package domain

import "errors"

var (
	ErrPaymentNotFound   = errors.New("payment_not_found")
	ErrInvalidPayer      = errors.New("invalid_payer")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidMethod     = errors.New("invalid_method")
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrPaymentNotSettled = errors.New("payment_not_settled")
	ErrCurrencyMismatch  = errors.New("currency_mismatch")
	ErrOverAllocation    = errors.New("over_allocation")
	ErrNoRefundableFunds = errors.New("no_refundable_funds")
)
