package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category buckets operating costs for reporting.
type Category string

const (
	CategoryCleaning    Category = "cleaning"
	CategoryMaintenance Category = "maintenance"
	CategoryUtilities   Category = "utilities"
	CategorySupplies    Category = "supplies"
	CategoryInsurance   Category = "insurance"
	CategoryOther       Category = "other"
)

// Expense is an operating cost attributed to a property. Rows are
// insert-only; a mistaken expense is corrected by a compensating one.
type Expense struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	PropertyID  snowflake.ID `gorm:"column:property_id;not null;index"`
	Category    Category     `gorm:"type:text;not null"`
	Description string       `gorm:"type:text;not null"`
	Amount      int64        `gorm:"not null"`
	Currency    string       `gorm:"type:text;not null"`
	IncurredOn  time.Time    `gorm:"column:incurred_on;type:date;not null;index"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Expense) TableName() string { return "expenses" }

func (e *Expense) Validate() error {
	if e.PropertyID == 0 {
		return ErrInvalidProperty
	}
	switch e.Category {
	case CategoryCleaning, CategoryMaintenance, CategoryUtilities,
		CategorySupplies, CategoryInsurance, CategoryOther:
	default:
		return ErrInvalidCategory
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrInvalidDescription
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(e.Currency)) != 3 {
		return ErrInvalidCurrency
	}
	if e.IncurredOn.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
