package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Reservation is the mutable booking header. The monetary aggregates are a
// derived cache of the night snapshot sum and are recomputed in the same
// transaction as the nights; they never drift while the reservation is not
// cancelled.
type Reservation struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	PropertyID  snowflake.ID `gorm:"column:property_id;not null;index"`
	GuestID     snowflake.ID `gorm:"column:guest_id;not null;index"`
	CheckIn     time.Time    `gorm:"column:check_in;type:date;not null"`
	CheckOut    time.Time    `gorm:"column:check_out;type:date;not null"`
	Status      Status       `gorm:"type:text;not null;index"`
	Subtotal    int64        `gorm:"not null"`
	TaxAmount   int64        `gorm:"column:tax_amount;not null"`
	TotalAmount int64        `gorm:"column:total_amount;not null"`
	Currency    string       `gorm:"type:text;not null"`
	ConfirmedAt *time.Time   `gorm:"column:confirmed_at"`
	CancelledAt *time.Time   `gorm:"column:cancelled_at"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Reservation) TableName() string { return "reservations" }

// Nights is the stay length in calendar nights.
func (r *Reservation) Nights() int {
	return int(pricingdomain.DateOnly(r.CheckOut).Sub(pricingdomain.DateOnly(r.CheckIn)) / (24 * time.Hour))
}

// ReservationNight freezes the resolved price, fees and tax for one night at
// booking time. Rows are never updated or deleted: later changes to seasonal
// rates, overrides, tax rules or the base price cannot reach them, and
// cancelled reservations keep them as the audit trail.
type ReservationNight struct {
	ID            snowflake.ID              `gorm:"primaryKey"`
	ReservationID snowflake.ID              `gorm:"column:reservation_id;not null;uniqueIndex:ux_reservation_nights_date,priority:1"`
	PropertyID    snowflake.ID              `gorm:"column:property_id;not null;index"`
	StayDate      time.Time                 `gorm:"column:stay_date;type:date;not null;uniqueIndex:ux_reservation_nights_date,priority:2"`
	NightlyPrice  int64                     `gorm:"column:nightly_price;not null"`
	CleaningFee   int64                     `gorm:"column:cleaning_fee;not null"`
	ServiceFee    int64                     `gorm:"column:service_fee;not null"`
	TaxRate       float64                   `gorm:"column:tax_rate;type:numeric(12,6);not null"`
	TaxAmount     int64                     `gorm:"column:tax_amount;not null"`
	TotalForNight int64                     `gorm:"column:total_for_night;not null"`
	PriceSource   pricingdomain.PriceSource `gorm:"column:price_source;type:text;not null"`
	CreatedAt     time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ReservationNight) TableName() string { return "reservation_nights" }
