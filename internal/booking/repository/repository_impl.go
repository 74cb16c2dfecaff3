package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayledger/stayledger/internal/booking/domain"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) InsertReservation(ctx context.Context, tx *gorm.DB, res *domain.Reservation) error {
	return tx.WithContext(ctx).Create(res).Error
}

func (r *repository) InsertNights(ctx context.Context, tx *gorm.DB, nights []domain.ReservationNight) error {
	if len(nights) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&nights).Error
}

func (r *repository) UpdateAggregates(ctx context.Context, tx *gorm.DB, id snowflake.ID, subtotal, tax, total int64, now time.Time) error {
	return tx.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"subtotal":     subtotal,
			"tax_amount":   tax,
			"total_amount": total,
			"updated_at":   now,
		}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, tx *gorm.DB, res *domain.Reservation) error {
	return tx.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ?", res.ID).
		Updates(map[string]any{
			"status":       res.Status,
			"confirmed_at": res.ConfirmedAt,
			"cancelled_at": res.CancelledAt,
			"updated_at":   res.UpdatedAt,
		}).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Reservation, error) {
	var res domain.Reservation
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&res, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Reservation, error) {
	q := r.db.WithContext(ctx).Model(&domain.Reservation{})
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.GuestID != nil {
		q = q.Where("guest_id = ?", *filter.GuestID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var out []domain.Reservation
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListNights(ctx context.Context, reservationID snowflake.ID) ([]domain.ReservationNight, error) {
	var out []domain.ReservationNight
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("stay_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) NightsForUpdate(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) ([]domain.ReservationNight, error) {
	var out []domain.ReservationNight
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_id = ?", reservationID).
		Order("stay_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CountOverlapping(ctx context.Context, tx *gorm.DB, propertyID snowflake.ID, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Table("reservation_nights AS n").
		Joins("JOIN reservations AS b ON b.id = n.reservation_id").
		Where("n.property_id = ?", propertyID).
		Where("n.stay_date >= ? AND n.stay_date < ?", pricingdomain.DateOnly(checkIn), pricingdomain.DateOnly(checkOut)).
		Where("b.status <> ?", domain.StatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *repository) AllocatedTotal(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) (int64, error) {
	var total int64
	err := tx.WithContext(ctx).
		Table("payment_allocations AS a").
		Joins("JOIN payments AS p ON p.id = a.payment_id").
		Where("a.reservation_id = ?", reservationID).
		Where("p.status = ?", "completed").
		Select("COALESCE(SUM(a.amount), 0)").
		Scan(&total).Error
	return total, err
}
