package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/stayledger/stayledger/internal/clock"
	"github.com/stayledger/stayledger/internal/searchlog/domain"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repository domain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &service{
		log:   p.Log,
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repository,
	}
}

func (s *service) Record(ctx context.Context, req domain.RecordRequest) (*domain.SearchLog, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, domain.ErrInvalidCity
	}

	checkIn, err := parseOptionalDate(req.CheckIn)
	if err != nil {
		return nil, domain.ErrInvalidDates
	}
	checkOut, err := parseOptionalDate(req.CheckOut)
	if err != nil {
		return nil, domain.ErrInvalidDates
	}
	if checkIn != nil && checkOut != nil && !checkOut.After(*checkIn) {
		return nil, domain.ErrInvalidDates
	}

	guests := req.Guests
	if guests < 1 {
		guests = 1
	}

	entry := &domain.SearchLog{
		ID:                s.genID.Generate(),
		ActorID:           req.ActorID,
		City:              city,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		Guests:            guests,
		Filters:           datatypes.JSONMap(req.Filters),
		ClickedPropertyID: req.ClickedPropertyID,
		SearchedAt:        s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]domain.SearchLog, error) {
	return s.repo.ListRecent(ctx, limit)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
