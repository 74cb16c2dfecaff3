package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	UpdateBasePrice(ctx context.Context, id string, basePrice int64) (*Response, error)
	CreateAmenity(ctx context.Context, name string) (*AmenityResponse, error)
	AttachAmenity(ctx context.Context, propertyID, amenityID string) error
	ListAmenities(ctx context.Context, propertyID string) ([]AmenityResponse, error)
}

type CreateRequest struct {
	HostID       string `json:"host_id"`
	LocationID   string `json:"location_id"`
	Name         string `json:"name"`
	BasePrice    int64  `json:"base_price"`
	Currency     string `json:"currency"`
	MaxOccupancy int    `json:"max_occupancy"`
}

type ListRequest struct {
	HostID     string
	LocationID string
	Active     *bool
	SortBy     string
	OrderBy    string
}

type Response struct {
	ID           string    `json:"id"`
	HostID       string    `json:"host_id"`
	LocationID   string    `json:"location_id"`
	Name         string    `json:"name"`
	BasePrice    int64     `json:"base_price"`
	Currency     string    `json:"currency"`
	MaxOccupancy int       `json:"max_occupancy"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AmenityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
