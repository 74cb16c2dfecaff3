package service

import (
	"context"
	"sort"
	"time"

	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type ResolverParams struct {
	fx.In

	Repository pricingdomain.Repository
}

type resolver struct {
	repo pricingdomain.Repository
}

func NewResolver(p ResolverParams) pricingdomain.Resolver {
	return &resolver{repo: p.Repository}
}

// ResolveNightly merges the three pricing layers, highest priority first:
// a per-date override wins outright, then the best-matching seasonal rate,
// then the property base price.
func (r *resolver) ResolveNightly(ctx context.Context, tx *gorm.DB, property *propertydomain.Property, date time.Time) (pricingdomain.ResolvedPrice, error) {
	if property == nil {
		return pricingdomain.ResolvedPrice{}, pricingdomain.ErrInvalidProperty
	}

	override, err := r.repo.FindOverrideForDate(ctx, tx, property.ID, date)
	if err != nil {
		return pricingdomain.ResolvedPrice{}, err
	}
	if override != nil {
		return pricingdomain.ResolvedPrice{
			Amount: override.NightlyPrice,
			Source: pricingdomain.PriceSourceOverride,
		}, nil
	}

	rates, err := r.repo.FindSeasonalRatesForDate(ctx, tx, property.ID, date)
	if err != nil {
		return pricingdomain.ResolvedPrice{}, err
	}
	if len(rates) > 0 {
		return pricingdomain.ResolvedPrice{
			Amount: pickSeasonalRate(rates).NightlyPrice,
			Source: pricingdomain.PriceSourceSeasonal,
		}, nil
	}

	return pricingdomain.ResolvedPrice{
		Amount: property.BasePrice,
		Source: pricingdomain.PriceSourceBase,
	}, nil
}

// pickSeasonalRate resolves overlapping seasonal rates deterministically:
// most recently created first (snowflake IDs order creation when timestamps
// collide), then the narrowest range, then the highest price. Overlaps are a
// data-entry conflict; the fixed ordering keeps bookings reproducible.
func pickSeasonalRate(rates []pricingdomain.SeasonalRate) pricingdomain.SeasonalRate {
	sort.Slice(rates, func(i, j int) bool {
		a, b := rates[i], rates[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.ID != b.ID {
			return a.ID > b.ID
		}
		if a.Span() != b.Span() {
			return a.Span() < b.Span()
		}
		return a.NightlyPrice > b.NightlyPrice
	})
	return rates[0]
}
