package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
	"github.com/stayledger/stayledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  pricingdomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  pricingdomain.Repository
}

func NewService(p Params) pricingdomain.Service {
	return &service{
		log:   p.Log.Named("pricing.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) CreateSeasonalRate(ctx context.Context, req pricingdomain.CreateSeasonalRateRequest) (*pricingdomain.SeasonalRateResponse, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return nil, pricingdomain.ErrInvalidProperty
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, pricingdomain.ErrInvalidDate
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, pricingdomain.ErrInvalidDate
	}

	rate := pricingdomain.SeasonalRate{
		ID:           s.genID.Generate(),
		PropertyID:   propertyID,
		Name:         strings.TrimSpace(req.Name),
		StartDate:    start,
		EndDate:      end,
		NightlyPrice: req.NightlyPrice,
		CreatedAt:    time.Now().UTC(),
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateSeasonalRate(ctx, &rate); err != nil {
		return nil, err
	}

	s.log.Info("seasonal rate created",
		zap.String("property_id", propertyID.String()),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int64("nightly_price", rate.NightlyPrice),
	)
	return toSeasonalResponse(&rate), nil
}

func (s *service) DeleteSeasonalRate(ctx context.Context, propertyID, id string) error {
	propID, err := snowflake.ParseString(propertyID)
	if err != nil {
		return pricingdomain.ErrInvalidProperty
	}
	rateID, err := snowflake.ParseString(id)
	if err != nil {
		return pricingdomain.ErrInvalidID
	}

	deleted, err := s.repo.DeleteSeasonalRate(ctx, propID, rateID)
	if err != nil {
		return err
	}
	if !deleted {
		return pricingdomain.ErrNotFound
	}
	return nil
}

func (s *service) ListSeasonalRates(ctx context.Context, propertyID string) ([]pricingdomain.SeasonalRateResponse, error) {
	propID, err := snowflake.ParseString(propertyID)
	if err != nil {
		return nil, pricingdomain.ErrInvalidProperty
	}

	items, err := s.repo.ListSeasonalRates(ctx, propID)
	if err != nil {
		return nil, err
	}

	resp := make([]pricingdomain.SeasonalRateResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toSeasonalResponse(&items[i]))
	}
	return resp, nil
}

func (s *service) CreateOverride(ctx context.Context, req pricingdomain.CreateOverrideRequest) (*pricingdomain.OverrideResponse, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return nil, pricingdomain.ErrInvalidProperty
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, pricingdomain.ErrInvalidDate
	}

	override := pricingdomain.PriceOverride{
		ID:           s.genID.Generate(),
		PropertyID:   propertyID,
		Date:         date,
		NightlyPrice: req.NightlyPrice,
		CreatedAt:    time.Now().UTC(),
	}
	if err := override.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateOverride(ctx, &override); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, pricingdomain.ErrOverrideExists
		}
		return nil, err
	}

	s.log.Info("price override created",
		zap.String("property_id", propertyID.String()),
		zap.String("date", req.Date),
		zap.Int64("nightly_price", override.NightlyPrice),
	)
	return toOverrideResponse(&override), nil
}

func (s *service) DeleteOverride(ctx context.Context, propertyID, id string) error {
	propID, err := snowflake.ParseString(propertyID)
	if err != nil {
		return pricingdomain.ErrInvalidProperty
	}
	overrideID, err := snowflake.ParseString(id)
	if err != nil {
		return pricingdomain.ErrInvalidID
	}

	deleted, err := s.repo.DeleteOverride(ctx, propID, overrideID)
	if err != nil {
		return err
	}
	if !deleted {
		return pricingdomain.ErrNotFound
	}
	return nil
}

func (s *service) ListOverrides(ctx context.Context, propertyID string) ([]pricingdomain.OverrideResponse, error) {
	propID, err := snowflake.ParseString(propertyID)
	if err != nil {
		return nil, pricingdomain.ErrInvalidProperty
	}

	items, err := s.repo.ListOverrides(ctx, propID)
	if err != nil {
		return nil, err
	}

	resp := make([]pricingdomain.OverrideResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toOverrideResponse(&items[i]))
	}
	return resp, nil
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

func toSeasonalResponse(rate *pricingdomain.SeasonalRate) *pricingdomain.SeasonalRateResponse {
	return &pricingdomain.SeasonalRateResponse{
		ID:           rate.ID.String(),
		PropertyID:   rate.PropertyID.String(),
		Name:         rate.Name,
		StartDate:    rate.StartDate.Format(dateLayout),
		EndDate:      rate.EndDate.Format(dateLayout),
		NightlyPrice: rate.NightlyPrice,
		CreatedAt:    rate.CreatedAt,
	}
}

func toOverrideResponse(override *pricingdomain.PriceOverride) *pricingdomain.OverrideResponse {
	return &pricingdomain.OverrideResponse{
		ID:           override.ID.String(),
		PropertyID:   override.PropertyID.String(),
		Date:         override.Date.Format(dateLayout),
		NightlyPrice: override.NightlyPrice,
		CreatedAt:    override.CreatedAt,
	}
}
