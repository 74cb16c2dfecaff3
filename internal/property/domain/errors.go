package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidHost      = errors.New("invalid_host")
	ErrInvalidLocation  = errors.New("invalid_location")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidBasePrice = errors.New("invalid_base_price")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrInvalidOccupancy = errors.New("invalid_occupancy")
	ErrNotFound         = errors.New("not_found")
	ErrAmenityNotFound  = errors.New("amenity_not_found")
)
