package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateRequest struct {
	PropertyID  snowflake.ID `json:"property_id,string"`
	Category    Category     `json:"category"`
	Description string       `json:"description"`
	Amount      int64        `json:"amount"`
	IncurredOn  string       `json:"incurred_on"`
}

type ListFilter struct {
	PropertyID *snowflake.ID
	Category   *Category
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, e *Expense) error
	FindByID(ctx context.Context, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, filter ListFilter) ([]Expense, error)
}

// Service records expenses and posts them to the ledger atomically.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Expense, error)
	Get(ctx context.Context, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, filter ListFilter) ([]Expense, error)
}
