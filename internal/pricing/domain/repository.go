package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads take an explicit *gorm.DB so the resolver can run inside
// the booking transaction and see one consistent policy snapshot.
type Repository interface {
	CreateSeasonalRate(ctx context.Context, rate *SeasonalRate) error
	DeleteSeasonalRate(ctx context.Context, propertyID, id snowflake.ID) (bool, error)
	ListSeasonalRates(ctx context.Context, propertyID snowflake.ID) ([]SeasonalRate, error)
	FindSeasonalRatesForDate(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, date time.Time) ([]SeasonalRate, error)

	CreateOverride(ctx context.Context, override *PriceOverride) error
	DeleteOverride(ctx context.Context, propertyID, id snowflake.ID) (bool, error)
	ListOverrides(ctx context.Context, propertyID snowflake.ID) ([]PriceOverride, error)
	FindOverrideForDate(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, date time.Time) (*PriceOverride, error)
}
