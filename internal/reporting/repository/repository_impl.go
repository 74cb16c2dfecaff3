package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	bookingdomain "github.com/stayledger/stayledger/internal/booking/domain"
	ledgerdomain "github.com/stayledger/stayledger/internal/ledger/domain"
	"github.com/stayledger/stayledger/internal/reporting/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) TopCities(ctx context.Context, since time.Time, limit int) ([]domain.CityDemand, error) {
	var out []domain.CityDemand
	err := r.db.WithContext(ctx).
		Table("search_logs").
		Select("city, COUNT(*) AS searches").
		Where("searched_at >= ?", since).
		Group("city").
		Order("searches DESC, city ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) TopProperties(ctx context.Context, since time.Time, limit int) ([]domain.PropertyBookings, error) {
	var out []domain.PropertyBookings
	err := r.db.WithContext(ctx).
		Table("reservations").
		Select("property_id, COUNT(*) AS bookings").
		Where("created_at >= ?", since).
		Where("status IN ?", []bookingdomain.Status{bookingdomain.StatusConfirmed, bookingdomain.StatusCompleted}).
		Group("property_id").
		Order("bookings DESC, property_id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Revenue and expenses come from the ledger's property dimension, so
// cancellations net out through their reversing entries instead of needing
// status filters here.
func (r *repository) MonthlyRevenue(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]domain.MonthlyAmount, error) {
	return r.monthlyByAccountType(ctx, propertyID, from, to, ledgerdomain.AccountTypeIncome, ledgerdomain.DirectionCredit)
}

func (r *repository) MonthlyExpenses(ctx context.Context, propertyID snowflake.ID, from, to time.Time) ([]domain.MonthlyAmount, error) {
	return r.monthlyByAccountType(ctx, propertyID, from, to, ledgerdomain.AccountTypeExpense, ledgerdomain.DirectionDebit)
}

func (r *repository) monthlyByAccountType(ctx context.Context, propertyID snowflake.ID, from, to time.Time, accountType ledgerdomain.AccountType, natural ledgerdomain.Direction) ([]domain.MonthlyAmount, error) {
	// substr of the ISO timestamp text yields the YYYY-MM bucket on both
	// postgres and sqlite.
	var out []domain.MonthlyAmount
	err := r.db.WithContext(ctx).
		Table("journal_lines AS l").
		Joins("JOIN journal_entries AS e ON e.id = l.journal_entry_id").
		Joins("JOIN accounts AS a ON a.id = l.account_id").
		Select("substr(CAST(e.occurred_at AS TEXT), 1, 7) AS month, "+
			"SUM(CASE WHEN l.direction = ? THEN l.amount ELSE -l.amount END) AS amount", string(natural)).
		Where("l.property_id = ?", propertyID).
		Where("a.type = ?", string(accountType)).
		Where("e.occurred_at >= ? AND e.occurred_at < ?", from, to).
		Group("month").
		Order("month ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
