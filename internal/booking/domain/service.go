package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	PropertyID  snowflake.ID `json:"property_id,string"`
	GuestID     snowflake.ID `json:"guest_id,string"`
	CheckIn     string       `json:"check_in"`
	CheckOut    string       `json:"check_out"`
	CleaningFee *int64       `json:"cleaning_fee,omitempty"`
	ServiceFee  *int64       `json:"service_fee,omitempty"`
}

// Engine drives the reservation lifecycle: quote-and-freeze at creation,
// then pending -> confirmed -> completed with cancellation from either of
// the first two states.
type Engine interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	Confirm(ctx context.Context, id snowflake.ID) (*Reservation, error)
	Cancel(ctx context.Context, id snowflake.ID) (*Reservation, error)
	Complete(ctx context.Context, id snowflake.ID) (*Reservation, error)

	Get(ctx context.Context, id snowflake.ID) (*Reservation, error)
	List(ctx context.Context, filter ListFilter) ([]Reservation, error)
	GetNights(ctx context.Context, id snowflake.ID) ([]ReservationNight, error)
}
