package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CityDemand counts guest searches per city.
type CityDemand struct {
	City     string `json:"city"`
	Searches int64  `json:"searches"`
}

// PropertyBookings counts confirmed or completed stays per property.
type PropertyBookings struct {
	PropertyID snowflake.ID `json:"property_id,string"`
	Bookings   int64        `json:"bookings"`
}

// MonthlyAmount is a calendar-month bucket (YYYY-MM) in minor units.
type MonthlyAmount struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

// ProfitAndLossRow nets a property's ledger-attributed income against its
// expenses for one month.
type ProfitAndLossRow struct {
	Month    string `json:"month"`
	Revenue  int64  `json:"revenue"`
	Expenses int64  `json:"expenses"`
	Net      int64  `json:"net"`
}

type Repository interface {
	TopCities(ctx context.Context, since time.Time, limit int) ([]CityDemand, error)
	TopProperties(ctx context.Context, since time.Time, limit int) ([]PropertyBookings, error)
	MonthlyRevenue(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]MonthlyAmount, error)
	MonthlyExpenses(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]MonthlyAmount, error)
}

// Service exposes read-only projections over operational tables and the
// ledger. Nothing here writes.
type Service interface {
	MostSearchedCities(ctx context.Context, since time.Time, limit int) ([]CityDemand, error)
	MostBookedProperties(ctx context.Context, since time.Time, limit int) ([]PropertyBookings, error)
	RevenueByMonth(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]MonthlyAmount, error)
	ExpensesByMonth(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]MonthlyAmount, error)
	ProfitAndLoss(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]ProfitAndLossRow, error)
}
