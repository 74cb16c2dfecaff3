package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	PayerID *snowflake.ID
	Status  *Status
	Limit   int
	Offset  int
}

type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id snowflake.ID) (*Payment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Payment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, p *Payment) error
	List(ctx context.Context, filter ListFilter) ([]Payment, error)

	InsertAllocation(ctx context.Context, tx *gorm.DB, a *PaymentAllocation) error
	ListAllocations(ctx context.Context, paymentID snowflake.ID) ([]PaymentAllocation, error)

	// AllocatedOfPayment sums the absolute amounts already drawn from the
	// payment, regardless of which reservation received them.
	AllocatedOfPayment(ctx context.Context, tx *gorm.DB, paymentID snowflake.ID) (int64, error)
	// AllocatedToReservation sums the signed allocations from completed
	// payments against the reservation.
	AllocatedToReservation(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) (int64, error)
}
