package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Resolver returns every tax rule in effect for a jurisdiction on a date.
// An empty result is a legitimate policy gap, not an error: the caller
// records zero tax.
type Resolver interface {
	ResolveForDate(ctx context.Context, tx *gorm.DB, locationID snowflake.ID, date time.Time) ([]TaxRule, error)
}

type Service interface {
	CreateRule(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error)
	ListRules(ctx context.Context, locationID string) ([]RuleResponse, error)

	FileReturn(ctx context.Context, req FileReturnRequest) (*ReturnResponse, error)
	GetReturn(ctx context.Context, id string) (*ReturnResponse, error)
	RecordReturnPayment(ctx context.Context, id string, paidAt time.Time) (*ReturnResponse, error)
}

type CreateRuleRequest struct {
	LocationID    string  `json:"location_id"`
	Name          string  `json:"name"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	Rate          float64 `json:"rate"`
	IsPercentage  *bool   `json:"is_percentage"`
}

type RuleResponse struct {
	ID            string    `json:"id"`
	LocationID    string    `json:"location_id"`
	Name          string    `json:"name"`
	EffectiveFrom string    `json:"effective_from"`
	EffectiveTo   *string   `json:"effective_to,omitempty"`
	Rate          float64   `json:"rate"`
	IsPercentage  bool      `json:"is_percentage"`
	CreatedAt     time.Time `json:"created_at"`
}

type FileReturnRequest struct {
	LocationID  string `json:"location_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type ReturnResponse struct {
	ID          string     `json:"id"`
	LocationID  string     `json:"location_id"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency"`
	FiledAt     time.Time  `json:"filed_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
