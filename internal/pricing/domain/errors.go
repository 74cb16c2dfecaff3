package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidProperty  = errors.New("invalid_property")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrOverrideExists   = errors.New("override_exists")
	ErrNotFound         = errors.New("not_found")
)
