package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	locationdomain "github.com/stayledger/stayledger/internal/location/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  locationdomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  locationdomain.Repository
}

func NewService(p Params) locationdomain.Service {
	return &service{
		log:   p.Log.Named("location.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req locationdomain.CreateRequest) (*locationdomain.Response, error) {
	now := time.Now().UTC()
	loc := locationdomain.Location{
		ID:          s.genID.Generate(),
		City:        strings.TrimSpace(req.City),
		Region:      strings.TrimSpace(req.Region),
		CountryCode: strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &loc); err != nil {
		return nil, err
	}

	s.log.Info("location created", zap.String("location_id", loc.ID.String()), zap.String("country", loc.CountryCode))
	return toResponse(&loc), nil
}

func (s *service) Get(ctx context.Context, id string) (*locationdomain.Response, error) {
	locID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, locationdomain.ErrInvalidID
	}

	loc, err := s.repo.FindByID(ctx, locID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, locationdomain.ErrNotFound
	}
	return toResponse(loc), nil
}

func (s *service) List(ctx context.Context, req locationdomain.ListRequest) ([]locationdomain.Response, error) {
	items, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := make([]locationdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func toResponse(loc *locationdomain.Location) *locationdomain.Response {
	return &locationdomain.Response{
		ID:          loc.ID.String(),
		City:        loc.City,
		Region:      loc.Region,
		CountryCode: loc.CountryCode,
		CreatedAt:   loc.CreatedAt,
		UpdatedAt:   loc.UpdatedAt,
	}
}
