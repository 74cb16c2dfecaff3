package domain

import (
	"context"
	"time"

	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	"gorm.io/gorm"
)

// Resolver computes the effective nightly price for a property and date by
// merging the override, seasonal and base layers. It is a pure function of
// the pricing state visible through tx; the booking engine calls it once per
// night and freezes the result.
type Resolver interface {
	ResolveNightly(ctx context.Context, tx *gorm.DB, property *propertydomain.Property, date time.Time) (ResolvedPrice, error)
}

type Service interface {
	CreateSeasonalRate(ctx context.Context, req CreateSeasonalRateRequest) (*SeasonalRateResponse, error)
	DeleteSeasonalRate(ctx context.Context, propertyID, id string) error
	ListSeasonalRates(ctx context.Context, propertyID string) ([]SeasonalRateResponse, error)

	CreateOverride(ctx context.Context, req CreateOverrideRequest) (*OverrideResponse, error)
	DeleteOverride(ctx context.Context, propertyID, id string) error
	ListOverrides(ctx context.Context, propertyID string) ([]OverrideResponse, error)
}

type CreateSeasonalRateRequest struct {
	PropertyID   string `json:"property_id"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	NightlyPrice int64  `json:"nightly_price"`
}

type SeasonalRateResponse struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	Name         string    `json:"name,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	NightlyPrice int64     `json:"nightly_price"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateOverrideRequest struct {
	PropertyID   string `json:"property_id"`
	Date         string `json:"date"`
	NightlyPrice int64  `json:"nightly_price"`
}

type OverrideResponse struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	Date         string    `json:"date"`
	NightlyPrice int64     `json:"nightly_price"`
	CreatedAt    time.Time `json:"created_at"`
}
