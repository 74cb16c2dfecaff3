package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) pricingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeasonalRate(ctx context.Context, rate *pricingdomain.SeasonalRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) DeleteSeasonalRate(ctx context.Context, propertyID, id snowflake.ID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM seasonal_rates WHERE property_id = ? AND id = ?`,
		propertyID,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListSeasonalRates(ctx context.Context, propertyID snowflake.ID) ([]pricingdomain.SeasonalRate, error) {
	var items []pricingdomain.SeasonalRate
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("start_date ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindSeasonalRatesForDate(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, date time.Time) ([]pricingdomain.SeasonalRate, error) {
	var items []pricingdomain.SeasonalRate
	err := tx.WithContext(ctx).
		Where("property_id = ? AND start_date <= ? AND end_date >= ?", propertyID, pricingdomain.DateOnly(date), pricingdomain.DateOnly(date)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateOverride(ctx context.Context, override *pricingdomain.PriceOverride) error {
	return r.db.WithContext(ctx).Create(override).Error
}

func (r *repository) DeleteOverride(ctx context.Context, propertyID, id snowflake.ID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM price_overrides WHERE property_id = ? AND id = ?`,
		propertyID,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListOverrides(ctx context.Context, propertyID snowflake.ID) ([]pricingdomain.PriceOverride, error) {
	var items []pricingdomain.PriceOverride
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindOverrideForDate(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, date time.Time) (*pricingdomain.PriceOverride, error) {
	var override pricingdomain.PriceOverride
	err := tx.WithContext(ctx).
		Where("property_id = ? AND date = ?", propertyID, pricingdomain.DateOnly(date)).
		Take(&override).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}
