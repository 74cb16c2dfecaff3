package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PriceSource records which pricing layer produced a resolved nightly price.
type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceSeasonal PriceSource = "seasonal"
	PriceSourceBase     PriceSource = "base"
)

// SeasonalRate prices a date range for a property. Ranges are inclusive on
// both ends and may overlap across rows; the resolver tie-break picks one.
type SeasonalRate struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	PropertyID   snowflake.ID `gorm:"column:property_id;not null;index"`
	Name         string       `gorm:"type:text"`
	StartDate    time.Time    `gorm:"column:start_date;type:date;not null"`
	EndDate      time.Time    `gorm:"column:end_date;type:date;not null"`
	NightlyPrice int64        `gorm:"column:nightly_price;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SeasonalRate) TableName() string { return "seasonal_rates" }

func (r *SeasonalRate) Validate() error {
	if r.PropertyID == 0 {
		return ErrInvalidProperty
	}
	if r.NightlyPrice <= 0 {
		return ErrInvalidPrice
	}
	if r.StartDate.After(r.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether d falls within the inclusive range.
func (r *SeasonalRate) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(DateOnly(r.StartDate)) && !d.After(DateOnly(r.EndDate))
}

// Span is the number of nights the range covers, used as a tie-break.
func (r *SeasonalRate) Span() int {
	return int(DateOnly(r.EndDate).Sub(DateOnly(r.StartDate))/(24*time.Hour)) + 1
}

// PriceOverride pins a single date to a price. At most one per
// (property, date); it beats every other pricing layer.
type PriceOverride struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	PropertyID   snowflake.ID `gorm:"column:property_id;not null;uniqueIndex:ux_price_overrides_property_date,priority:1"`
	Date         time.Time    `gorm:"type:date;not null;uniqueIndex:ux_price_overrides_property_date,priority:2"`
	NightlyPrice int64        `gorm:"column:nightly_price;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceOverride) TableName() string { return "price_overrides" }

func (o *PriceOverride) Validate() error {
	if o.PropertyID == 0 {
		return ErrInvalidProperty
	}
	if o.NightlyPrice <= 0 {
		return ErrInvalidPrice
	}
	if o.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ResolvedPrice is the outcome of layered price resolution for one night.
type ResolvedPrice struct {
	Amount int64
	Source PriceSource
}

// DateOnly truncates t to a UTC calendar date. All stay dates are stored and
// compared at UTC midnight.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
