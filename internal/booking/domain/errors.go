package domain

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation_not_found")
	ErrInvalidDateRange    = errors.New("invalid_date_range")
	ErrStayTooLong         = errors.New("stay_too_long")
	ErrInvalidFee          = errors.New("invalid_fee")
	ErrInvalidGuest        = errors.New("invalid_guest")
	ErrPropertyInactive    = errors.New("property_inactive")
	ErrDateConflict        = errors.New("date_conflict")
	ErrPropertyBusy        = errors.New("property_busy")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrStayNotOver         = errors.New("stay_not_over")
	ErrInsufficientPayment = errors.New("insufficient_payment")
	ErrNightSumMismatch    = errors.New("night_sum_mismatch")
)
