package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	PropertyID *snowflake.ID
	GuestID    *snowflake.ID
	Status     *Status
	Limit      int
	Offset     int
}

// Repository persists reservations and their night snapshots. The tx-scoped
// methods take the caller's open transaction so the engine can keep the
// overlap check, the snapshot inserts and the aggregate write atomic.
type Repository interface {
	InsertReservation(ctx context.Context, tx *gorm.DB, r *Reservation) error
	InsertNights(ctx context.Context, tx *gorm.DB, nights []ReservationNight) error
	UpdateAggregates(ctx context.Context, tx *gorm.DB, id snowflake.ID, subtotal, tax, total int64, now time.Time) error
	// UpdateStatus writes the status, transition timestamps and UpdatedAt
	// from the given reservation; the caller stamps UpdatedAt from its clock.
	UpdateStatus(ctx context.Context, tx *gorm.DB, r *Reservation) error

	FindByID(ctx context.Context, id snowflake.ID) (*Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Reservation, error)
	List(ctx context.Context, filter ListFilter) ([]Reservation, error)
	ListNights(ctx context.Context, reservationID snowflake.ID) ([]ReservationNight, error)
	NightsForUpdate(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) ([]ReservationNight, error)

	// CountOverlapping counts nights of non-cancelled reservations for the
	// property whose stay date falls in [checkIn, checkOut).
	CountOverlapping(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, checkIn, checkOut time.Time) (int64, error)

	// AllocatedTotal sums completed-payment allocations against the
	// reservation. Refund allocations carry a negative sign.
	AllocatedTotal(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) (int64, error)
}
