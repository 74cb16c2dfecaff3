package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidCity  = errors.New("invalid_city")
	ErrInvalidDates = errors.New("invalid_date_range")
)

type RecordRequest struct {
	ActorID           *snowflake.ID  `json:"actor_id,string,omitempty"`
	City              string         `json:"city"`
	CheckIn           string         `json:"check_in,omitempty"`
	CheckOut          string         `json:"check_out,omitempty"`
	Guests            int            `json:"guests"`
	Filters           map[string]any `json:"filters,omitempty"`
	ClickedPropertyID *snowflake.ID  `json:"clicked_property_id,string,omitempty"`
}

type Repository interface {
	Insert(ctx context.Context, log *SearchLog) error
	ListRecent(ctx context.Context, limit int) ([]SearchLog, error)
}

// Service is the write path for search telemetry.
type Service interface {
	Record(ctx context.Context, req RecordRequest) (*SearchLog, error)
	ListRecent(ctx context.Context, limit int) ([]SearchLog, error)
}
