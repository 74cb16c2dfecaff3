package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the gateway-driven payment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Method is the capture channel reported by the gateway.
type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
)

// Payment is a money movement reported by the payment gateway. Amount is in
// minor units and signed: positive for a guest charge, negative for a refund.
type Payment struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	PayerID     snowflake.ID `gorm:"column:payer_id;not null;index"`
	Method      Method       `gorm:"type:text;not null"`
	Amount      int64        `gorm:"not null"`
	Currency    string       `gorm:"type:text;not null"`
	Status      Status       `gorm:"type:text;not null;index"`
	ReceivedAt  time.Time    `gorm:"column:received_at;not null"`
	CompletedAt *time.Time   `gorm:"column:completed_at"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Payment) TableName() string { return "payments" }

// IsRefund reports whether the payment moves money back to the payer.
func (p *Payment) IsRefund() bool { return p.Amount < 0 }

// PaymentAllocation apportions part of a payment to one reservation. The
// stored amount carries the payment's sign: positive allocations build up a
// reservation's paid balance, refund allocations draw it back down.
type PaymentAllocation struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	PaymentID     snowflake.ID `gorm:"column:payment_id;not null;index"`
	ReservationID snowflake.ID `gorm:"column:reservation_id;not null;index"`
	Amount        int64        `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PaymentAllocation) TableName() string { return "payment_allocations" }
