package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stayledger/stayledger/internal/searchlog/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, log *domain.SearchLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]domain.SearchLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []domain.SearchLog
	err := r.db.WithContext(ctx).
		Order("searched_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
