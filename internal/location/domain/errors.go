package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCity        = errors.New("invalid_city")
	ErrInvalidCountryCode = errors.New("invalid_country_code")
	ErrNotFound           = errors.New("not_found")
)
