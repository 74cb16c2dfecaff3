package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TaxRule is a named, effective-dated tax for a location. Multiple distinct
// names (occupancy tax, city tax) may apply to the same night; within one
// name the rule with the latest effective_from not exceeding the stay date
// wins. Rate is a fraction for percentage rules and an absolute minor-unit
// amount for flat rules.
type TaxRule struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	LocationID    snowflake.ID `gorm:"column:location_id;not null;uniqueIndex:ux_tax_rules_location_name_from,priority:1"`
	Name          string       `gorm:"type:text;not null;uniqueIndex:ux_tax_rules_location_name_from,priority:2"`
	EffectiveFrom time.Time    `gorm:"column:effective_from;type:date;not null;uniqueIndex:ux_tax_rules_location_name_from,priority:3"`
	EffectiveTo   *time.Time   `gorm:"column:effective_to;type:date"`
	Rate          float64      `gorm:"type:numeric(12,6);not null"`
	IsPercentage  bool         `gorm:"column:is_percentage;not null;default:true"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxRule) TableName() string { return "tax_rules" }

func (r *TaxRule) Validate() error {
	if r.LocationID == 0 {
		return ErrInvalidLocation
	}
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Rate < 0 {
		return ErrInvalidRate
	}
	if r.EffectiveFrom.IsZero() {
		return ErrInvalidEffectiveFrom
	}
	if r.EffectiveTo != nil && r.EffectiveTo.Before(r.EffectiveFrom) {
		return ErrInvalidEffectiveRange
	}
	return nil
}

// NightTax sums every applicable rule over the taxable base for one night.
// Percentage rules apply their fraction to the base; flat rules add their
// rate as an absolute amount. The returned effective rate is amount/base, the
// single representative snapshot frozen on the reservation night.
func NightTax(base int64, rules []TaxRule) (int64, float64) {
	if base < 0 {
		base = 0
	}

	var amount int64
	for _, rule := range rules {
		if rule.IsPercentage {
			amount += int64(math.Round(float64(base) * rule.Rate))
		} else {
			amount += int64(math.Round(rule.Rate))
		}
	}
	if amount < 0 {
		amount = 0
	}

	var effectiveRate float64
	if base > 0 {
		effectiveRate = float64(amount) / float64(base)
	}
	return amount, effectiveRate
}

// AppliesOn reports whether the rule is in effect on the given date.
func (r *TaxRule) AppliesOn(date time.Time) bool {
	if date.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || !r.EffectiveTo.Before(date)
}

// TaxReturn is a filed record per jurisdiction and period. Write-once: after
// filing only the payment date may be recorded.
type TaxReturn struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	LocationID  snowflake.ID      `gorm:"column:location_id;not null;index"`
	PeriodStart time.Time         `gorm:"column:period_start;type:date;not null"`
	PeriodEnd   time.Time         `gorm:"column:period_end;type:date;not null"`
	Amount      int64             `gorm:"not null"`
	Currency    string            `gorm:"type:text;not null"`
	FiledAt     time.Time         `gorm:"column:filed_at;not null"`
	PaidAt      *time.Time        `gorm:"column:paid_at"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
}

func (TaxReturn) TableName() string { return "tax_returns" }
