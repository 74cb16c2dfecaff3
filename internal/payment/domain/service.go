package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	PayerID  snowflake.ID `json:"payer_id,string"`
	Method   Method       `json:"method"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
}

type AllocateRequest struct {
	ReservationID snowflake.ID `json:"reservation_id,string"`
	Amount        int64        `json:"amount"`
}

// Service records gateway payments, settles them, and apportions settled
// funds to reservations under the over-allocation bounds.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Payment, error)
	// Settle applies a gateway outcome: pending -> completed | failed, and
	// completed -> refunded once refunds drain the payment. Completing a
	// payment posts the cash movement to the ledger.
	Settle(ctx context.Context, id snowflake.ID, status Status) (*Payment, error)
	Allocate(ctx context.Context, paymentID snowflake.ID, req AllocateRequest) (*PaymentAllocation, error)

	Get(ctx context.Context, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, filter ListFilter) ([]Payment, error)
	GetAllocations(ctx context.Context, paymentID snowflake.ID) ([]PaymentAllocation, error)
}
