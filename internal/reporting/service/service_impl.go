package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/stayledger/stayledger/internal/reporting/domain"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Repository domain.Repository
}

type service struct {
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &service{log: p.Log, repo: p.Repository}
}

const defaultLimit = 10

func (s *service) MostSearchedCities(ctx context.Context, since time.Time, limit int) ([]domain.CityDemand, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.TopCities(ctx, since, limit)
}

func (s *service) MostBookedProperties(ctx context.Context, since time.Time, limit int) ([]domain.PropertyBookings, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.TopProperties(ctx, since, limit)
}

func (s *service) RevenueByMonth(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]domain.MonthlyAmount, error) {
	return s.repo.MonthlyRevenue(ctx, propertyID, from, to)
}

func (s *service) ExpensesByMonth(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]domain.MonthlyAmount, error) {
	return s.repo.MonthlyExpenses(ctx, propertyID, from, to)
}

// ProfitAndLoss merges the revenue and expense month buckets; months with
// activity on only one side still appear with the other side at zero.
func (s *service) ProfitAndLoss(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]domain.ProfitAndLossRow, error) {
	revenue, err := s.repo.MonthlyRevenue(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.MonthlyExpenses(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*domain.ProfitAndLossRow)
	for _, row := range revenue {
		byMonth[row.Month] = &domain.ProfitAndLossRow{Month: row.Month, Revenue: row.Amount}
	}
	for _, row := range expenses {
		entry, ok := byMonth[row.Month]
		if !ok {
			entry = &domain.ProfitAndLossRow{Month: row.Month}
			byMonth[row.Month] = entry
		}
		entry.Expenses = row.Amount
	}

	out := make([]domain.ProfitAndLossRow, 0, len(byMonth))
	for _, entry := range byMonth {
		entry.Net = entry.Revenue - entry.Expenses
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
