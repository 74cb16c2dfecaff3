package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/stayledger/stayledger/internal/expense/domain"
	pricingdomain "github.com/stayledger/stayledger/internal/pricing/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, tx *gorm.DB, e *domain.Expense) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Expense, error) {
	var e domain.Expense
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Expense, error) {
	q := r.db.WithContext(ctx).Model(&domain.Expense{})
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.From != nil {
		q = q.Where("incurred_on >= ?", pricingdomain.DateOnly(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("incurred_on < ?", pricingdomain.DateOnly(*filter.To))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var out []domain.Expense
	if err := q.Order("incurred_on DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
