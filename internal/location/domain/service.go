package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type CreateRequest struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryCode string `json:"country_code"`
}

type ListRequest struct {
	CountryCode string
	SortBy      string
	OrderBy     string
}

type Response struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Region      string    `json:"region,omitempty"`
	CountryCode string    `json:"country_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
