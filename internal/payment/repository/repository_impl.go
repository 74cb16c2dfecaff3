package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayledger/stayledger/internal/payment/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var p domain.Payment
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tx *gorm.DB, p *domain.Payment) error {
	return tx.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"status":       p.Status,
			"completed_at": p.CompletedAt,
			"updated_at":   p.UpdatedAt,
		}).Error
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{})
	if filter.PayerID != nil {
		q = q.Where("payer_id = ?", *filter.PayerID)
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

	var out []domain.Payment
	if err := q.Order("received_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) InsertAllocation(ctx context.Context, tx *gorm.DB, a *domain.PaymentAllocation) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *repository) ListAllocations(ctx context.Context, paymentID snowflake.ID) ([]domain.PaymentAllocation, error) {
	var out []domain.PaymentAllocation
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) AllocatedOfPayment(ctx context.Context, tx *gorm.DB, paymentID snowflake.ID) (int64, error) {
	var total int64
	err := tx.WithContext(ctx).
		Model(&domain.PaymentAllocation{}).
		Where("payment_id = ?", paymentID).
		Select("COALESCE(SUM(ABS(amount)), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) AllocatedToReservation(ctx context.Context, tx *gorm.DB, reservationID snowflake.ID) (int64, error) {
	var total int64
	err := tx.WithContext(ctx).
		Table("payment_allocations AS a").
		Joins("JOIN payments AS p ON p.id = a.payment_id").
		Where("a.reservation_id = ?", reservationID).
		Where("p.status = ?", domain.StatusCompleted).
		Select("COALESCE(SUM(a.amount), 0)").
		Scan(&total).Error
	return total, err
}
