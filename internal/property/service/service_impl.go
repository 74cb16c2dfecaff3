package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	propertydomain "github.com/stayledger/stayledger/internal/property/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  propertydomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  propertydomain.Repository
}

func NewService(p Params) propertydomain.Service {
	return &service{
		log:   p.Log.Named("property.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req propertydomain.CreateRequest) (*propertydomain.Response, error) {
	hostID, err := snowflake.ParseString(strings.TrimSpace(req.HostID))
	if err != nil {
		return nil, propertydomain.ErrInvalidHost
	}
	locationID, err := snowflake.ParseString(strings.TrimSpace(req.LocationID))
	if err != nil {
		return nil, propertydomain.ErrInvalidLocation
	}

	maxOccupancy := req.MaxOccupancy
	if maxOccupancy == 0 {
		maxOccupancy = 2
	}

	now := time.Now().UTC()
	prop := propertydomain.Property{
		ID:           s.genID.Generate(),
		HostID:       hostID,
		LocationID:   locationID,
		Name:         strings.TrimSpace(req.Name),
		BasePrice:    req.BasePrice,
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		MaxOccupancy: maxOccupancy,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := prop.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &prop); err != nil {
		return nil, err
	}

	s.log.Info("property created",
		zap.String("property_id", prop.ID.String()),
		zap.String("host_id", prop.HostID.String()),
		zap.Int64("base_price", prop.BasePrice),
	)
	return toResponse(&prop), nil
}

func (s *service) Get(ctx context.Context, id string) (*propertydomain.Response, error) {
	propID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, propertydomain.ErrInvalidID
	}

	prop, err := s.repo.FindByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, propertydomain.ErrNotFound
	}
	return toResponse(prop), nil
}

func (s *service) List(ctx context.Context, req propertydomain.ListRequest) ([]propertydomain.Response, error) {
	items, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := make([]propertydomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

// UpdateBasePrice changes the lowest-priority pricing layer. Existing
// reservation nights are frozen and not touched.
func (s *service) UpdateBasePrice(ctx context.Context, id string, basePrice int64) (*propertydomain.Response, error) {
	propID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, propertydomain.ErrInvalidID
	}
	if basePrice <= 0 {
		return nil, propertydomain.ErrInvalidBasePrice
	}

	prop, err := s.repo.FindByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, propertydomain.ErrNotFound
	}

	if err := s.repo.UpdateBasePrice(ctx, propID, basePrice); err != nil {
		return nil, err
	}

	prop.BasePrice = basePrice
	s.log.Info("property base price updated",
		zap.String("property_id", propID.String()),
		zap.Int64("base_price", basePrice),
	)
	return toResponse(prop), nil
}

func (s *service) CreateAmenity(ctx context.Context, name string) (*propertydomain.AmenityResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, propertydomain.ErrInvalidName
	}

	amenity := propertydomain.Amenity{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAmenity(ctx, &amenity); err != nil {
		return nil, err
	}
	return &propertydomain.AmenityResponse{ID: amenity.ID.String(), Name: amenity.Name}, nil
}

func (s *service) AttachAmenity(ctx context.Context, propertyID, amenityID string) error {
	propID, err := snowflake.ParseString(propertyID)
	if err != nil {
		return propertydomain.ErrInvalidID
	}
	amenID, err := snowflake.ParseString(amenityID)
	if err != nil {
		return propertydomain.ErrAmenityNotFound
	}

	prop, err := s.repo.FindByID(ctx, propID)
	if err != nil {
		return err
	}
	if prop == nil {
		return propertydomain.ErrNotFound
	}

	return s.repo.AttachAmenity(ctx, &propertydomain.PropertyAmenity{
		PropertyID: propID,
		AmenityID:  amenID,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *service) ListAmenities(ctx context.Context, propertyID string) ([]propertydomain.AmenityResponse, error) {
	propID, err := snowflake.ParseString(propertyID)
	if err != nil {
		return nil, propertydomain.ErrInvalidID
	}

	items, err := s.repo.ListAmenities(ctx, propID)
	if err != nil {
		return nil, err
	}

	resp := make([]propertydomain.AmenityResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, propertydomain.AmenityResponse{ID: item.ID.String(), Name: item.Name})
	}
	return resp, nil
}

func toResponse(prop *propertydomain.Property) *propertydomain.Response {
	return &propertydomain.Response{
		ID:           prop.ID.String(),
		HostID:       prop.HostID.String(),
		LocationID:   prop.LocationID.String(),
		Name:         prop.Name,
		BasePrice:    prop.BasePrice,
		Currency:     prop.Currency,
		MaxOccupancy: prop.MaxOccupancy,
		Active:       prop.Active,
		CreatedAt:    prop.CreatedAt,
		UpdatedAt:    prop.UpdatedAt,
	}
}
