package domain

import "errors"

var (
	ErrExpenseNotFound    = errors.New("expense_not_found")
	ErrInvalidProperty    = errors.New("invalid_property")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidDate        = errors.New("invalid_date")
)
